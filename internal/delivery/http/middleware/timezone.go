package middleware

import (
	"strings"
	"time"

	"hydroguide/internal/domain/hydration"

	"github.com/gofiber/fiber/v3"
)

const (
	HeaderTimezone = "X-Timezone"
	CtxTodayKey    = "today"
)

// TimezoneMiddleware resolves "today" in the caller's timezone from the
// X-Timezone header, falling back to the server default. An unknown zone is a
// bad request.
type TimezoneMiddleware struct {
	fallback *time.Location
	now      func() time.Time
}

// NewTimezoneMiddleware takes an optional clock; nil means time.Now.
func NewTimezoneMiddleware(fallback *time.Location, now func() time.Time) *TimezoneMiddleware {
	if fallback == nil {
		fallback = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &TimezoneMiddleware{fallback: fallback, now: now}
}

func (m *TimezoneMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		loc := m.fallback
		if name := strings.TrimSpace(c.Get(HeaderTimezone)); name != "" {
			l, err := time.LoadLocation(name)
			if err != nil {
				return NewAppError(fiber.StatusBadRequest, "Unknown timezone", map[string]string{"timezone": name}, err)
			}
			loc = l
		}
		c.Locals(CtxTodayKey, hydration.DayOf(m.now(), loc))
		return c.Next()
	}
}

// Today is the current calendar day in the caller's timezone.
func Today(c fiber.Ctx) hydration.Day {
	if d, ok := c.Locals(CtxTodayKey).(hydration.Day); ok && d != "" {
		return d
	}
	return hydration.DayOf(time.Now(), time.UTC)
}
