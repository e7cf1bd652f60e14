package seeder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hydroguide/internal/database"
	"hydroguide/internal/domain/hydration"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Demo identifies the account the demo seeders populate.
type Demo struct {
	Email    string
	Password string
	Location *time.Location

	// Now defaults to time.Now.
	Now func() time.Time
}

func (d Demo) email() string {
	return strings.ToLower(strings.TrimSpace(d.Email))
}

func (d Demo) today() hydration.Day {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	return hydration.DayOf(now(), d.Location)
}

// DemoProfile is the profile the demo account starts with.
var DemoProfile = hydration.Profile{
	WeightLb:         160,
	Age:              30,
	Gender:           hydration.GenderFemale,
	ActivityLevel:    hydration.ActivityModerate,
	Climate:          hydration.ClimateTemperate,
	BottleCapacityOz: hydration.DefaultBottleCapacityOz,
}

type DemoAccountSeeder struct {
	Demo Demo
}

func (DemoAccountSeeder) Name() string { return "demo_account" }

// Run creates the demo user and its profile. An existing user keeps its
// password and profile.
func (s DemoAccountSeeder) Run(ctx context.Context, db database.DB) error {
	email := s.Demo.email()
	if email == "" || s.Demo.Password == "" {
		return fmt.Errorf("demo credentials not configured")
	}
	if err := EnsureTableColumns(ctx, db, "users", "id", "email", "password_hash"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "profiles",
		"user_id", "weight_lb", "age", "gender", "activity_level", "climate", "daily_goal_oz", "bottle_capacity_oz",
	); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.Demo.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	p := DemoProfile
	goal := hydration.ComputeDailyGoal(p)

	return database.InTx(ctx, db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3) ON CONFLICT (email) DO NOTHING`,
			uuid.New(), email, string(hash),
		); err != nil {
			return err
		}

		var userID uuid.UUID
		if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&userID); err != nil {
			return fmt.Errorf("lookup demo user: %w", err)
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO profiles (user_id, weight_lb, age, gender, activity_level, climate, daily_goal_oz, bottle_capacity_oz)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (user_id) DO NOTHING`,
			userID, p.WeightLb, p.Age, string(p.Gender), string(p.ActivityLevel), string(p.Climate), goal, p.BottleCapacityOz,
		)
		return err
	})
}
