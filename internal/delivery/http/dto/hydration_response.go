package dto

import (
	"time"

	"hydroguide/internal/domain/hydration"
	"hydroguide/internal/usecase"

	"github.com/google/uuid"
)

type ProfileRequest struct {
	WeightLb         *float64 `json:"weight_lb"`
	Age              *int     `json:"age"`
	Gender           string   `json:"gender"`
	ActivityLevel    string   `json:"activity_level"`
	Climate          string   `json:"climate"`
	BottleCapacityOz *float64 `json:"bottle_capacity_oz"`
}

func (r ProfileRequest) Input() usecase.ProfileInput {
	return usecase.ProfileInput{
		WeightLb:         r.WeightLb,
		Age:              r.Age,
		Gender:           r.Gender,
		ActivityLevel:    r.ActivityLevel,
		Climate:          r.Climate,
		BottleCapacityOz: r.BottleCapacityOz,
	}
}

type ProfileResponse struct {
	WeightLb         float64   `json:"weight_lb"`
	Age              int       `json:"age"`
	Gender           string    `json:"gender"`
	ActivityLevel    string    `json:"activity_level"`
	Climate          string    `json:"climate"`
	DailyGoalOz      int       `json:"daily_goal_oz"`
	IsPro            bool      `json:"is_pro"`
	BottleCapacityOz float64   `json:"bottle_capacity_oz"`
	ThemeID          string    `json:"theme_id"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewProfileResponse(p hydration.Profile) ProfileResponse {
	return ProfileResponse{
		WeightLb:         p.WeightLb,
		Age:              p.Age,
		Gender:           string(p.Gender),
		ActivityLevel:    string(p.ActivityLevel),
		Climate:          string(p.Climate),
		DailyGoalOz:      p.DailyGoalOz,
		IsPro:            p.IsPro,
		BottleCapacityOz: p.BottleCapacityOz,
		ThemeID:          p.ThemeID,
		UpdatedAt:        p.UpdatedAt,
	}
}

type BottleRequest struct {
	BottleCapacityOz float64 `json:"bottle_capacity_oz"`
}

type ThemeRequest struct {
	ThemeID string `json:"theme_id"`
}

// LogIntakeRequest always logs against today in the caller's timezone.
type LogIntakeRequest struct {
	AmountOz float64 `json:"amount_oz"`
}

type IntakeEntryResponse struct {
	ID            uuid.UUID `json:"id"`
	Date          string    `json:"date"`
	AmountOz      float64   `json:"amount_oz"`
	GoalAtLogTime int       `json:"goal_at_log_time"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewIntakeEntryResponse(e hydration.IntakeEntry) IntakeEntryResponse {
	return IntakeEntryResponse{
		ID:            e.ID,
		Date:          e.Date.String(),
		AmountOz:      e.AmountOz,
		GoalAtLogTime: e.GoalAtLogTime,
		CreatedAt:     e.CreatedAt,
	}
}

// IntakeMutationResponse answers a log or undo. TotalOz is the day's
// authoritative total after the change, absent if it could not be read back.
type IntakeMutationResponse struct {
	Undone  *bool                `json:"undone,omitempty"`
	Entry   *IntakeEntryResponse `json:"entry,omitempty"`
	TotalOz *float64             `json:"total_oz,omitempty"`
}

// DayStatusResponse carries no figures for a locked day.
type DayStatusResponse struct {
	Date    string   `json:"date"`
	Locked  bool     `json:"locked"`
	TotalOz *float64 `json:"total_oz,omitempty"`
	GoalOz  *float64 `json:"goal_oz,omitempty"`
	Percent *float64 `json:"percent,omitempty"`
	Status  string   `json:"status,omitempty"`
}

func NewDayStatusResponse(v usecase.DayView) DayStatusResponse {
	out := DayStatusResponse{Date: v.Date.String(), Locked: v.Locked}
	if v.Aggregate != nil && !v.Locked {
		fillAggregate(&out.TotalOz, &out.GoalOz, &out.Percent, &out.Status, *v.Aggregate)
	}
	return out
}

type CalendarCellResponse struct {
	Date    string   `json:"date"`
	Padding bool     `json:"padding"`
	Locked  bool     `json:"locked"`
	TotalOz *float64 `json:"total_oz,omitempty"`
	GoalOz  *float64 `json:"goal_oz,omitempty"`
	Percent *float64 `json:"percent,omitempty"`
	Status  string   `json:"status,omitempty"`
}

type MonthResponse struct {
	Month string                   `json:"month"`
	IsPro bool                     `json:"is_pro"`
	Weeks [][]CalendarCellResponse `json:"weeks"`
}

func NewMonthResponse(v usecase.MonthView) MonthResponse {
	out := MonthResponse{Month: v.Month.String(), IsPro: v.IsPro, Weeks: make([][]CalendarCellResponse, 0, len(v.Cells)/7)}
	for i := 0; i < len(v.Cells); i += 7 {
		end := min(i+7, len(v.Cells))
		week := make([]CalendarCellResponse, 0, 7)
		for _, c := range v.Cells[i:end] {
			cell := CalendarCellResponse{Date: c.Date.String(), Padding: c.Padding, Locked: c.Locked}
			if c.Day != nil && !c.Locked && !c.Padding {
				fillAggregate(&cell.TotalOz, &cell.GoalOz, &cell.Percent, &cell.Status, *c.Day)
			}
			week = append(week, cell)
		}
		out.Weeks = append(out.Weeks, week)
	}
	return out
}

type RangeResponse struct {
	Start string              `json:"start"`
	End   string              `json:"end"`
	Days  []DayStatusResponse `json:"days"`
}

type VisibilityResponse struct {
	Date       string `json:"date"`
	Visibility string `json:"visibility"`
}

type RecommendationsResponse struct {
	Recommendations []hydration.Recommendation `json:"recommendations"`
}

type ThemesResponse struct {
	Current string            `json:"current"`
	Themes  []hydration.Theme `json:"themes"`
}

func fillAggregate(total, goal, pct **float64, status *string, a hydration.DayAggregate) {
	t, g, p := a.TotalOz, a.GoalOz, a.Percent
	*total, *goal, *pct = &t, &g, &p
	*status = string(a.Status)
}
