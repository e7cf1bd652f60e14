package handler

import (
	"context"
	"time"

	"hydroguide/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// Pinger is satisfied by the database handle and the Redis cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler takes an optional cache; a nil cache reports "disabled".
func NewHealthHandler(db Pinger, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Check)
}

type healthStatus struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// Check reports 503 only when the database is down. The cache is optional.
func (h *HealthHandler) Check(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	st := healthStatus{Database: "ok", Cache: "disabled"}
	status := fiber.StatusOK

	if h.db == nil {
		st.Database = "down"
		status = fiber.StatusServiceUnavailable
	} else if err := h.db.Ping(ctx); err != nil {
		st.Database = "down"
		status = fiber.StatusServiceUnavailable
	}

	if h.cache != nil {
		st.Cache = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			st.Cache = "down"
		}
	}

	return response.Success(c, status, response.DefaultMessage(status), st)
}
