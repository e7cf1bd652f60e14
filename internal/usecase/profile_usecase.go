package usecase

import (
	"context"
	"errors"
	"math"

	"hydroguide/internal/domain/hydration"
	"hydroguide/internal/repository"

	"github.com/google/uuid"
)

// Plausibility limits applied before the goal formula runs.
const (
	MaxWeightLb         = 1500.0
	MaxAge              = 130
	MaxBottleCapacityOz = 256.0
)

// ProfileInput is a full profile submission. Nil pointers and empty strings
// are missing fields. BottleCapacityOz is optional and keeps its stored value
// when omitted.
type ProfileInput struct {
	WeightLb         *float64
	Age              *int
	Gender           string
	ActivityLevel    string
	Climate          string
	BottleCapacityOz *float64
}

type ProfileUsecase interface {
	SaveProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (hydration.Profile, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (hydration.Profile, error)
	SetBottleCapacity(ctx context.Context, userID uuid.UUID, oz float64) error
	SetTheme(ctx context.Context, userID uuid.UUID, themeID string) (hydration.Theme, error)
}

type ProfileService struct {
	profiles repository.ProfileRepository
}

func NewProfileUsecase(profiles repository.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// SaveProfile validates the submission, recomputes the daily goal and
// replaces the stored profile. Nothing is written when validation fails.
func (u *ProfileService) SaveProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (hydration.Profile, error) {
	if userID == uuid.Nil {
		return hydration.Profile{}, ErrUnauthorized
	}

	p, err := validateProfileInput(in)
	if err != nil {
		return hydration.Profile{}, err
	}
	p.UserID = userID

	existing, err := u.profiles.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		p.BottleCapacityOz = existing.BottleCapacityOz
	case errors.Is(err, repository.ErrProfileNotFound):
		p.BottleCapacityOz = hydration.DefaultBottleCapacityOz
	default:
		return hydration.Profile{}, storageErr(err)
	}
	if in.BottleCapacityOz != nil {
		p.BottleCapacityOz = *in.BottleCapacityOz
	}

	p.DailyGoalOz = hydration.ComputeDailyGoal(p)

	saved, err := u.profiles.Upsert(ctx, p)
	if err != nil {
		return hydration.Profile{}, storageErr(err)
	}
	return saved, nil
}

func (u *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (hydration.Profile, error) {
	if userID == uuid.Nil {
		return hydration.Profile{}, ErrUnauthorized
	}
	p, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return hydration.Profile{}, ErrProfileNotFound
		}
		return hydration.Profile{}, storageErr(err)
	}
	return p, nil
}

func (u *ProfileService) SetBottleCapacity(ctx context.Context, userID uuid.UUID, oz float64) error {
	if userID == uuid.Nil {
		return ErrUnauthorized
	}
	if !validAmount(oz) || oz > MaxBottleCapacityOz {
		return ErrInvalidAmount
	}
	if err := u.profiles.UpdateBottleCapacity(ctx, userID, oz); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return ErrProfileNotFound
		}
		return storageErr(err)
	}
	return nil
}

// SetTheme switches the cosmetic theme. Pro themes require a pro account.
func (u *ProfileService) SetTheme(ctx context.Context, userID uuid.UUID, themeID string) (hydration.Theme, error) {
	if userID == uuid.Nil {
		return hydration.Theme{}, ErrUnauthorized
	}
	theme, ok := hydration.LookupTheme(themeID)
	if !ok {
		return hydration.Theme{}, ErrUnknownTheme
	}

	p, err := u.GetProfile(ctx, userID)
	if err != nil {
		return hydration.Theme{}, err
	}
	if theme.Pro && !p.IsPro {
		return hydration.Theme{}, ErrThemeLocked
	}

	if err := u.profiles.UpdateTheme(ctx, userID, theme.ID); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return hydration.Theme{}, ErrProfileNotFound
		}
		return hydration.Theme{}, storageErr(err)
	}
	return theme, nil
}

func validateProfileInput(in ProfileInput) (hydration.Profile, error) {
	var p hydration.Profile
	fields := map[string]string{}

	switch {
	case in.WeightLb == nil:
		fields["weightLb"] = "weight is required"
	case math.IsNaN(*in.WeightLb) || *in.WeightLb <= 0:
		fields["weightLb"] = "weight must be a positive number of pounds"
	case *in.WeightLb > MaxWeightLb:
		fields["weightLb"] = "weight is out of range"
	default:
		p.WeightLb = *in.WeightLb
	}

	switch {
	case in.Age == nil:
		fields["age"] = "age is required"
	case *in.Age < 0 || *in.Age > MaxAge:
		fields["age"] = "age must be a whole number between 0 and 130"
	default:
		p.Age = *in.Age
	}

	if in.Gender == "" {
		fields["gender"] = "gender is required"
	} else if g, err := hydration.ParseGender(in.Gender); err != nil {
		fields["gender"] = "gender must be one of male, female, other"
	} else {
		p.Gender = g
	}

	if in.ActivityLevel == "" {
		fields["activityLevel"] = "activity level is required"
	} else if a, err := hydration.ParseActivityLevel(in.ActivityLevel); err != nil {
		fields["activityLevel"] = "activity level must be one of sedentary, light, moderate, high, extreme"
	} else {
		p.ActivityLevel = a
	}

	if in.Climate == "" {
		fields["climate"] = "climate is required"
	} else if c, err := hydration.ParseClimate(in.Climate); err != nil {
		fields["climate"] = "climate must be one of temperate, hot, cold"
	} else {
		p.Climate = c
	}

	if in.BottleCapacityOz != nil && (!validAmount(*in.BottleCapacityOz) || *in.BottleCapacityOz > MaxBottleCapacityOz) {
		fields["bottleCapacityOz"] = "bottle capacity must be a positive number of ounces"
	}

	if len(fields) > 0 {
		return hydration.Profile{}, &ProfileIncompleteError{Fields: fields}
	}
	return p, nil
}

var _ ProfileUsecase = (*ProfileService)(nil)

// ProStatusChange is a billing-driven entitlement update. Activation is keyed
// by user, cancellation by Stripe customer.
type ProStatusChange struct {
	UserID     uuid.UUID
	CustomerID string
	Active     bool
}

// SetProStatus flips the pro flag and resets the theme to the tier default.
// It returns the number of profiles changed.
func (u *ProfileService) SetProStatus(ctx context.Context, change ProStatusChange) (int64, error) {
	if change.Active {
		if change.UserID == uuid.Nil {
			return 0, ErrInvalidInput
		}
		if err := u.profiles.ActivatePro(ctx, change.UserID, change.CustomerID, hydration.ProThemeID); err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				return 0, ErrProfileNotFound
			}
			return 0, storageErr(err)
		}
		return 1, nil
	}

	if change.CustomerID == "" {
		return 0, ErrInvalidInput
	}
	n, err := u.profiles.DeactivateProByCustomer(ctx, change.CustomerID, hydration.DefaultThemeID)
	if err != nil {
		return 0, storageErr(err)
	}
	return n, nil
}
