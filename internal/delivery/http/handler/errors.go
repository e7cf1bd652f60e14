package handler

import (
	"context"
	"errors"

	"hydroguide/internal/delivery/http/middleware"
	"hydroguide/internal/pkg/response"
	"hydroguide/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// mapUsecaseError converts the usecase error kinds to HTTP errors. Anything
// unclassified becomes a 500.
func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var incomplete *usecase.ProfileIncompleteError
	switch {
	case errors.As(err, &incomplete):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Profile incomplete", incomplete.Fields, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrInvalidAmount):
		return middleware.NewAppError(fiber.StatusBadRequest, "Amount must be a positive number of ounces", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrDayLocked):
		return middleware.NewAppError(fiber.StatusForbidden, "Day is locked", map[string]bool{"locked": true}, err)
	case errors.Is(err, usecase.ErrProfileNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
	case errors.Is(err, usecase.ErrThemeLocked):
		return middleware.NewAppError(fiber.StatusForbidden, "Theme requires a pro account", nil, err)
	case errors.Is(err, usecase.ErrUnknownTheme):
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown theme", nil, err)
	case errors.Is(err, usecase.ErrMalformedResponse):
		return middleware.NewAppError(fiber.StatusBadGateway, "Recommendations could not be read, please retry", nil, err)
	case errors.Is(err, usecase.ErrRecommendationUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Recommendations are unavailable, please retry", nil, err)
	case errors.Is(err, usecase.ErrStorageUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Storage unavailable, please retry", nil, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Request timed out, please retry", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func badRequest(msg string, err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, msg, nil, err)
}
