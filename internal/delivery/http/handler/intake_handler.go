package handler

import (
	"errors"
	"strings"

	"hydroguide/internal/delivery/http/dto"
	"hydroguide/internal/delivery/http/middleware"
	"hydroguide/internal/domain/hydration"
	"hydroguide/internal/pkg/response"
	"hydroguide/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type IntakeHandler struct {
	ledger    usecase.LedgerUsecase
	adherence usecase.AdherenceUsecase
}

func NewIntakeHandler(ledger usecase.LedgerUsecase, adherence usecase.AdherenceUsecase) *IntakeHandler {
	return &IntakeHandler{ledger: ledger, adherence: adherence}
}

func (h *IntakeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("", h.Log)
	r.Post("/undo", h.Undo)
	r.Get("/today", h.Today)
	r.Get("/range", h.Range)
}

func (h *IntakeHandler) Log(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req dto.LogIntakeRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Bad request", err)
	}

	day := middleware.Today(c)
	entry, err := h.ledger.LogIntake(c.Context(), usecase.LogIntakeInput{UserID: userID, AmountOz: req.AmountOz, Day: day})
	if err != nil {
		return mapUsecaseError(err)
	}

	er := dto.NewIntakeEntryResponse(entry)
	out := dto.IntakeMutationResponse{Entry: &er, TotalOz: h.totalAfter(c, userID, day)}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, out)
}

// Undo removes the most recent entry of today. An empty day is reported as a
// notice, not a failure.
func (h *IntakeHandler) Undo(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	day := middleware.Today(c)

	removed, err := h.ledger.UndoLast(c.Context(), userID, day, day)
	if err != nil {
		if errors.Is(err, usecase.ErrNothingToUndo) {
			undone := false
			return response.Success(c, fiber.StatusOK, "Nothing to undo", dto.IntakeMutationResponse{Undone: &undone})
		}
		return mapUsecaseError(err)
	}

	undone := true
	er := dto.NewIntakeEntryResponse(removed)
	out := dto.IntakeMutationResponse{Undone: &undone, Entry: &er, TotalOz: h.totalAfter(c, userID, day)}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *IntakeHandler) Today(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	today := middleware.Today(c)

	v, err := h.adherence.GetDayStatus(c.Context(), userID, today, today)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewDayStatusResponse(v))
}

func (h *IntakeHandler) Range(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	today := middleware.Today(c)

	end, err := dayQuery(c, "end", today)
	if err != nil {
		return err
	}
	start, err := dayQuery(c, "start", end.AddDays(-hydration.FreeHistoryDays))
	if err != nil {
		return err
	}

	views, err := h.adherence.GetVisibleRange(c.Context(), userID, start, end, today)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := dto.RangeResponse{Start: start.String(), End: end.String(), Days: make([]dto.DayStatusResponse, 0, len(views))}
	for _, v := range views {
		out.Days = append(out.Days, dto.NewDayStatusResponse(v))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

// totalAfter reads back the committed total. A failed read leaves it absent;
// the write itself already succeeded.
func (h *IntakeHandler) totalAfter(c fiber.Ctx, userID uuid.UUID, day hydration.Day) *float64 {
	total, err := h.ledger.TodayTotal(c.Context(), userID, day)
	if err != nil {
		return nil
	}
	return &total
}

func dayQuery(c fiber.Ctx, key string, def hydration.Day) (hydration.Day, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	d, err := hydration.ParseDay(raw)
	if err != nil {
		return "", badRequest(key+" must be YYYY-MM-DD", err)
	}
	return d, nil
}
