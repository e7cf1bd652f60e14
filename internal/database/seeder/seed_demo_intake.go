package seeder

import (
	"context"
	"fmt"
	"math"

	"hydroguide/internal/database"
	"hydroguide/internal/domain/hydration"

	"github.com/google/uuid"
)

// DemoHistoryDays is how many days before today the demo history covers. It
// reaches past the free window so locked days show up for free accounts.
const DemoHistoryDays = 21

// demoFill is the share of the goal drunk on each day of a repeating week.
var demoFill = []float64{1.1, 0.8, 1.0, 0.4, 1.25, 0.95, 0}

type plannedEntry struct {
	Day      hydration.Day
	AmountOz float64
}

// demoIntakePlan lays out bottle-sized drinks for the days before today.
// Today is left empty.
func demoIntakePlan(today hydration.Day, goalOz int, bottleOz float64) []plannedEntry {
	if bottleOz <= 0 {
		bottleOz = hydration.DefaultBottleCapacityOz
	}
	var out []plannedEntry
	for i := DemoHistoryDays; i >= 1; i-- {
		day := today.AddDays(-i)
		remaining := math.Round(float64(goalOz)*demoFill[i%len(demoFill)]*10) / 10
		for remaining > 0 {
			amount := bottleOz
			if remaining < bottleOz {
				amount = remaining
			}
			out = append(out, plannedEntry{Day: day, AmountOz: amount})
			remaining -= amount
		}
	}
	return out
}

type DemoIntakeSeeder struct {
	Demo Demo
}

func (DemoIntakeSeeder) Name() string { return "demo_intake" }

// Run writes the demo history once. A demo user that already has entries is
// left alone.
func (s DemoIntakeSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "intake_entries", "id", "user_id", "day", "amount_oz", "goal_at_log_time"); err != nil {
		return err
	}

	var (
		userID   uuid.UUID
		goalOz   int
		bottleOz float64
	)
	err := db.QueryRow(ctx,
		`SELECT u.id, p.daily_goal_oz, p.bottle_capacity_oz
		 FROM users u JOIN profiles p ON p.user_id = u.id
		 WHERE u.email = $1`,
		s.Demo.email(),
	).Scan(&userID, &goalOz, &bottleOz)
	if err != nil {
		if database.IsNoRows(err) {
			return fmt.Errorf("demo account missing, run %s first", DemoAccountSeeder{}.Name())
		}
		return err
	}

	var existing int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM intake_entries WHERE user_id = $1`, userID).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	plan := demoIntakePlan(s.Demo.today(), goalOz, bottleOz)
	return database.InTx(ctx, db, func(tx database.Tx) error {
		for _, e := range plan {
			if _, err := tx.Exec(ctx,
				`INSERT INTO intake_entries (id, user_id, day, amount_oz, goal_at_log_time) VALUES ($1, $2, $3, $4, $5)`,
				uuid.New(), userID, e.Day.Time(), e.AmountOz, goalOz,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
