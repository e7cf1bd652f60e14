package hydration

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityHigh      ActivityLevel = "high"
	ActivityExtreme   ActivityLevel = "extreme"
)

type Climate string

const (
	ClimateTemperate Climate = "temperate"
	ClimateHot       Climate = "hot"
	ClimateCold      Climate = "cold"
)

const (
	DefaultGoalOz           = 100
	DefaultBottleCapacityOz = 24.0
	DefaultActivity         = ActivityModerate
	DefaultClimate          = ClimateTemperate
)

var (
	ErrUnknownGender   = errors.New("unknown gender")
	ErrUnknownActivity = errors.New("unknown activity level")
	ErrUnknownClimate  = errors.New("unknown climate")
)

// Profile is the per-user record the goal is derived from. DailyGoalOz is only
// ever written by the profile save path through ComputeDailyGoal.
type Profile struct {
	UserID           uuid.UUID
	WeightLb         float64
	Age              int
	Gender           Gender
	ActivityLevel    ActivityLevel
	Climate          Climate
	DailyGoalOz      int
	IsPro            bool
	BottleCapacityOz float64
	ThemeID          string
	StripeCustomerID string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func ParseGender(s string) (Gender, error) {
	switch normalize(s) {
	case "male", "m":
		return GenderMale, nil
	case "female", "f":
		return GenderFemale, nil
	case "other":
		return GenderOther, nil
	default:
		return "", ErrUnknownGender
	}
}

func ParseActivityLevel(s string) (ActivityLevel, error) {
	switch normalize(s) {
	case "sedentary":
		return ActivitySedentary, nil
	case "light":
		return ActivityLight, nil
	case "moderate":
		return ActivityModerate, nil
	case "high", "active":
		return ActivityHigh, nil
	case "extreme":
		return ActivityExtreme, nil
	default:
		return "", ErrUnknownActivity
	}
}

func ParseClimate(s string) (Climate, error) {
	switch normalize(s) {
	case "temperate":
		return ClimateTemperate, nil
	case "hot", "tropical":
		return ClimateHot, nil
	case "cold":
		return ClimateCold, nil
	default:
		return "", ErrUnknownClimate
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
