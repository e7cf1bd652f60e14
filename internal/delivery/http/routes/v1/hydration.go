package v1

import (
	"hydroguide/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type HydrationHandlers struct {
	Profile         *handler.ProfileHandler
	Intake          *handler.IntakeHandler
	History         *handler.HistoryHandler
	Recommendations *handler.RecommendationHandler
}

// RegisterHydration mounts the per-user tracking routes. r must already carry
// the auth and timezone middleware.
func RegisterHydration(r fiber.Router, h HydrationHandlers) {
	if r == nil {
		return
	}

	if h.Profile != nil {
		h.Profile.RegisterRoutes(r.Group("/profile"))
	}
	if h.Intake != nil {
		h.Intake.RegisterRoutes(r.Group("/intake"))
	}
	if h.History != nil {
		h.History.RegisterRoutes(r.Group("/history"))
	}
	if h.Recommendations != nil {
		h.Recommendations.RegisterRoutes(r.Group("/recommendations"))
	}
}
