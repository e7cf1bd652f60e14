package usecase

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidInput              = errors.New("invalid input")
	ErrInvalidAmount             = errors.New("amount must be a positive number of ounces")
	ErrNothingToUndo             = errors.New("nothing to undo")
	ErrDayLocked                 = errors.New("day is outside the visible history")
	ErrProfileIncomplete         = errors.New("profile incomplete")
	ErrProfileNotFound           = errors.New("profile not found")
	ErrMalformedResponse         = errors.New("malformed recommendation response")
	ErrRecommendationUnavailable = errors.New("recommendation service unavailable")
	ErrStorageUnavailable        = errors.New("storage unavailable")
	ErrThemeLocked               = errors.New("theme requires a pro account")
	ErrUnknownTheme              = errors.New("unknown theme")
)

// ProfileIncompleteError lists, per field, what the caller has to fix.
type ProfileIncompleteError struct {
	Fields map[string]string
}

func (e *ProfileIncompleteError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrProfileIncomplete.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrProfileIncomplete.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ProfileIncompleteError) Unwrap() error {
	return ErrProfileIncomplete
}

// storageErr classifies a repository failure at the usecase boundary.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrStorageUnavailable, err)
}
