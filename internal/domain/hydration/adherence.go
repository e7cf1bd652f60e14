package hydration

import "math"

type Status string

const (
	StatusEmpty   Status = "empty"
	StatusStarted Status = "started"
	StatusMet     Status = "met"
)

type Visibility string

const (
	Visible Visibility = "visible"
	Locked  Visibility = "locked"
)

// FreeHistoryDays is how far back a free account can look, counted from today.
const FreeHistoryDays = 7

// DayAggregate is the derived adherence state of one day.
type DayAggregate struct {
	Date    Day
	TotalOz float64
	GoalOz  float64
	Status  Status
	Percent float64
}

// Classify reports met iff total >= goal, so a zero goal is trivially met.
func Classify(totalOz, goalOz float64) Status {
	switch {
	case totalOz >= goalOz:
		return StatusMet
	case totalOz > 0:
		return StatusStarted
	default:
		return StatusEmpty
	}
}

// SafeGoal substitutes DefaultGoalOz for a non-positive goal so percentages
// never divide by zero.
func SafeGoal(goalOz float64) float64 {
	if goalOz <= 0 || math.IsNaN(goalOz) {
		return DefaultGoalOz
	}
	return goalOz
}

// Percent of the goal reached, clamped to [0, 100].
func Percent(totalOz, goalOz float64) float64 {
	p := totalOz / SafeGoal(goalOz) * 100
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func NewDayAggregate(d Day, totalOz, goalOz float64) DayAggregate {
	return DayAggregate{
		Date:    d,
		TotalOz: totalOz,
		GoalOz:  goalOz,
		Status:  Classify(totalOz, goalOz),
		Percent: Percent(totalOz, goalOz),
	}
}

// VisibleFrom is the earliest day a free account may see.
func VisibleFrom(today Day) Day {
	return today.AddDays(-FreeHistoryDays)
}

// VisibilityOf returns Locked iff the account is not pro and d is older than
// the free window.
func VisibilityOf(d Day, isPro bool, today Day) Visibility {
	if isPro {
		return Visible
	}
	if d.Before(VisibleFrom(today)) {
		return Locked
	}
	return Visible
}
