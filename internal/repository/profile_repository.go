package repository

import (
	"context"
	"errors"

	"hydroguide/internal/database"
	"hydroguide/internal/domain/hydration"

	"github.com/google/uuid"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (hydration.Profile, error)
	Upsert(ctx context.Context, p hydration.Profile) (hydration.Profile, error)
	UpdateBottleCapacity(ctx context.Context, userID uuid.UUID, oz float64) error
	UpdateTheme(ctx context.Context, userID uuid.UUID, themeID string) error
	ActivatePro(ctx context.Context, userID uuid.UUID, stripeCustomerID string, themeID string) error
	DeactivateProByCustomer(ctx context.Context, stripeCustomerID string, themeID string) (int64, error)
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

const profileColumns = `user_id, weight_lb, age, gender, activity_level, climate, daily_goal_oz,
	is_pro, bottle_capacity_oz, theme_id, COALESCE(stripe_customer_id, ''), created_at, updated_at`

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (hydration.Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles
		 WHERE user_id = $1`,
		userID,
	)
	return scanProfile(row)
}

// Upsert replaces the body fields of the profile. is_pro, theme_id and
// stripe_customer_id belong to the billing flow and are left untouched on
// conflict.
func (r *PostgresProfileRepository) Upsert(ctx context.Context, p hydration.Profile) (hydration.Profile, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO profiles (user_id, weight_lb, age, gender, activity_level, climate, daily_goal_oz, bottle_capacity_oz)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (user_id) DO UPDATE SET
		   weight_lb = EXCLUDED.weight_lb,
		   age = EXCLUDED.age,
		   gender = EXCLUDED.gender,
		   activity_level = EXCLUDED.activity_level,
		   climate = EXCLUDED.climate,
		   daily_goal_oz = EXCLUDED.daily_goal_oz,
		   bottle_capacity_oz = EXCLUDED.bottle_capacity_oz,
		   updated_at = now()
		 RETURNING `+profileColumns,
		p.UserID, p.WeightLb, p.Age, string(p.Gender), string(p.ActivityLevel), string(p.Climate), p.DailyGoalOz, p.BottleCapacityOz,
	)
	return scanProfile(row)
}

func (r *PostgresProfileRepository) UpdateBottleCapacity(ctx context.Context, userID uuid.UUID, oz float64) error {
	n, err := r.db.Exec(ctx,
		`UPDATE profiles SET bottle_capacity_oz = $1, updated_at = now() WHERE user_id = $2`,
		oz, userID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *PostgresProfileRepository) UpdateTheme(ctx context.Context, userID uuid.UUID, themeID string) error {
	n, err := r.db.Exec(ctx,
		`UPDATE profiles SET theme_id = $1, updated_at = now() WHERE user_id = $2`,
		themeID, userID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *PostgresProfileRepository) ActivatePro(ctx context.Context, userID uuid.UUID, stripeCustomerID string, themeID string) error {
	n, err := r.db.Exec(ctx,
		`UPDATE profiles
		 SET is_pro = true, stripe_customer_id = NULLIF($1, ''), theme_id = $2, updated_at = now()
		 WHERE user_id = $3`,
		stripeCustomerID, themeID, userID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *PostgresProfileRepository) DeactivateProByCustomer(ctx context.Context, stripeCustomerID string, themeID string) (int64, error) {
	return r.db.Exec(ctx,
		`UPDATE profiles
		 SET is_pro = false, theme_id = $1, updated_at = now()
		 WHERE stripe_customer_id = $2`,
		themeID, stripeCustomerID,
	)
}

func scanProfile(row database.Row) (hydration.Profile, error) {
	var p hydration.Profile
	var gender, activity, climate string
	err := row.Scan(
		&p.UserID, &p.WeightLb, &p.Age, &gender, &activity, &climate, &p.DailyGoalOz,
		&p.IsPro, &p.BottleCapacityOz, &p.ThemeID, &p.StripeCustomerID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return hydration.Profile{}, ErrProfileNotFound
		}
		return hydration.Profile{}, err
	}
	p.Gender = hydration.Gender(gender)
	p.ActivityLevel = hydration.ActivityLevel(activity)
	p.Climate = hydration.Climate(climate)
	return p, nil
}

var _ ProfileRepository = (*PostgresProfileRepository)(nil)
