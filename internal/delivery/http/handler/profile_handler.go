package handler

import (
	"hydroguide/internal/delivery/http/dto"
	"hydroguide/internal/delivery/http/middleware"
	"hydroguide/internal/domain/hydration"
	"hydroguide/internal/pkg/response"
	"hydroguide/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	uc usecase.ProfileUsecase
}

func NewProfileHandler(uc usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("", h.Get)
	r.Put("", h.Save)
	r.Put("/bottle", h.SetBottle)
	r.Get("/themes", h.Themes)
	r.Put("/theme", h.SetTheme)
}

func (h *ProfileHandler) Get(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	p, err := h.uc.GetProfile(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}

// Save replaces the profile and returns it with the recomputed daily goal.
func (h *ProfileHandler) Save(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req dto.ProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Bad request", err)
	}

	p, err := h.uc.SaveProfile(c.Context(), userID, req.Input())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) SetBottle(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req dto.BottleRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Bad request", err)
	}
	if err := h.uc.SetBottleCapacity(c.Context(), userID, req.BottleCapacityOz); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, req)
}

func (h *ProfileHandler) Themes(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	current := hydration.DefaultThemeID
	if p, err := h.uc.GetProfile(c.Context(), userID); err == nil && p.ThemeID != "" {
		current = p.ThemeID
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.ThemesResponse{Current: current, Themes: hydration.Themes()})
}

func (h *ProfileHandler) SetTheme(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req dto.ThemeRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Bad request", err)
	}
	theme, err := h.uc.SetTheme(c.Context(), userID, req.ThemeID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, theme)
}
