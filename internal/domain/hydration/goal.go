package hydration

import "math"

// GoalTable holds the breakpoints of the daily goal formula.
type GoalTable struct {
	MinorBaselineOz float64
	AdultMinAge     int
	MaleOzPerLb     float64
	DefaultOzPerLb  float64
	ActivityOz      map[ActivityLevel]float64
	ClimateOz       map[Climate]float64
}

var DefaultGoalTable = GoalTable{
	MinorBaselineOz: 32,
	AdultMinAge:     14,
	MaleOzPerLb:     0.67,
	DefaultOzPerLb:  0.5,
	ActivityOz: map[ActivityLevel]float64{
		ActivitySedentary: 6,
		ActivityLight:     6,
		ActivityModerate:  12,
		ActivityHigh:      24,
		ActivityExtreme:   32,
	},
	ClimateOz: map[Climate]float64{
		ClimateTemperate: 0,
		ClimateHot:       12,
		ClimateCold:      0,
	},
}

// ComputeDailyGoal returns the daily fluid target in ounces using DefaultGoalTable.
func ComputeDailyGoal(p Profile) int {
	return DefaultGoalTable.Compute(p)
}

// Compute never fails: unknown activity or climate values add nothing, and the
// result is floored at zero.
func (t GoalTable) Compute(p Profile) int {
	if p.Age < t.AdultMinAge {
		return roundOz(t.MinorBaselineOz)
	}

	perLb := t.DefaultOzPerLb
	if p.Gender == GenderMale {
		perLb = t.MaleOzPerLb
	}

	goal := p.WeightLb * perLb
	goal += t.ActivityOz[p.ActivityLevel]
	goal += t.ClimateOz[p.Climate]

	return roundOz(goal)
}

func roundOz(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if math.IsInf(v, 1) {
		return math.MaxInt32
	}
	return int(math.Round(v))
}
