package handler

import (
	"strings"

	"hydroguide/internal/delivery/http/dto"
	"hydroguide/internal/delivery/http/middleware"
	"hydroguide/internal/domain/hydration"
	"hydroguide/internal/pkg/response"
	"hydroguide/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// HistoryHandler serves calendar views. Locked days are returned with
// locked=true and no figures.
type HistoryHandler struct {
	uc usecase.AdherenceUsecase
}

func NewHistoryHandler(uc usecase.AdherenceUsecase) *HistoryHandler {
	return &HistoryHandler{uc: uc}
}

func (h *HistoryHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/day", h.Day)
	r.Get("/month", h.Month)
	r.Get("/visibility", h.Visibility)
}

func (h *HistoryHandler) Day(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	today := middleware.Today(c)
	day, err := dayQuery(c, "date", today)
	if err != nil {
		return err
	}

	v, err := h.uc.GetDayStatus(c.Context(), userID, day, today)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewDayStatusResponse(v))
}

func (h *HistoryHandler) Month(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	today := middleware.Today(c)

	month := hydration.MonthOf(today)
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		if month, err = hydration.ParseMonth(raw); err != nil {
			return badRequest("month must be YYYY-MM", err)
		}
	}

	v, err := h.uc.GetMonthView(c.Context(), userID, month, today)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMonthResponse(v))
}

func (h *HistoryHandler) Visibility(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	today := middleware.Today(c)
	day, err := dayQuery(c, "date", today)
	if err != nil {
		return err
	}

	vis, err := h.uc.GetVisibility(c.Context(), userID, day, today)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.VisibilityResponse{Date: day.String(), Visibility: string(vis)})
}
