package hydration

import (
	"time"

	"github.com/google/uuid"
)

// IntakeEntry is one logged drink. Entries are immutable; undo deletes them.
type IntakeEntry struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Date          Day
	AmountOz      float64
	GoalAtLogTime int
	CreatedAt     time.Time
}

// DayTotal is the ledger view of a day: the summed amount and the goal snapshot
// of the latest-created entry.
type DayTotal struct {
	TotalOz float64
	GoalOz  int

	latest time.Time
}

// SumByDay folds entries into per-day totals. Input order does not matter.
func SumByDay(entries []IntakeEntry) map[Day]DayTotal {
	out := make(map[Day]DayTotal)
	for _, e := range entries {
		dt, seen := out[e.Date]
		dt.TotalOz += e.AmountOz
		if !seen || !e.CreatedAt.Before(dt.latest) {
			dt.GoalOz = e.GoalAtLogTime
			dt.latest = e.CreatedAt
		}
		out[e.Date] = dt
	}
	return out
}
