package repository

import (
	"context"
	"errors"
	"time"

	"hydroguide/internal/database"
	"hydroguide/internal/domain/hydration"

	"github.com/google/uuid"
)

var ErrEntryNotFound = errors.New("intake entry not found")

type IntakeRepository interface {
	Insert(ctx context.Context, e hydration.IntakeEntry) (hydration.IntakeEntry, error)
	DeleteLatest(ctx context.Context, userID uuid.UUID, day hydration.Day) (hydration.IntakeEntry, error)
	ListRange(ctx context.Context, userID uuid.UUID, start, end hydration.Day) ([]hydration.IntakeEntry, error)
	SumDay(ctx context.Context, userID uuid.UUID, day hydration.Day) (float64, error)
}

type PostgresIntakeRepository struct {
	db database.DB
}

func NewPostgresIntakeRepository(db database.DB) *PostgresIntakeRepository {
	return &PostgresIntakeRepository{db: db}
}

func (r *PostgresIntakeRepository) Insert(ctx context.Context, e hydration.IntakeEntry) (hydration.IntakeEntry, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO intake_entries (id, user_id, day, amount_oz, goal_at_log_time)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		e.ID, e.UserID, e.Date.Time(), e.AmountOz, e.GoalAtLogTime,
	)
	if err := row.Scan(&e.CreatedAt); err != nil {
		return hydration.IntakeEntry{}, err
	}
	return e, nil
}

// DeleteLatest removes the most recently created entry of the day. The row is
// locked before deletion so two concurrent undos never remove the same entry
// twice or skip one.
func (r *PostgresIntakeRepository) DeleteLatest(ctx context.Context, userID uuid.UUID, day hydration.Day) (hydration.IntakeEntry, error) {
	var out hydration.IntakeEntry
	err := database.InTx(ctx, r.db, func(tx database.Tx) error {
		row := tx.QueryRow(ctx,
			`SELECT id, user_id, day, amount_oz, goal_at_log_time, created_at
			 FROM intake_entries
			 WHERE user_id = $1 AND day = $2
			 ORDER BY created_at DESC, id DESC
			 LIMIT 1
			 FOR UPDATE`,
			userID, day.Time(),
		)
		e, err := scanIntakeEntry(row)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM intake_entries WHERE id = $1`, e.ID); err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return hydration.IntakeEntry{}, err
	}
	return out, nil
}

func (r *PostgresIntakeRepository) ListRange(ctx context.Context, userID uuid.UUID, start, end hydration.Day) ([]hydration.IntakeEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, day, amount_oz, goal_at_log_time, created_at
		 FROM intake_entries
		 WHERE user_id = $1 AND day BETWEEN $2 AND $3`,
		userID, start.Time(), end.Time(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]hydration.IntakeEntry, 0)
	for rows.Next() {
		e, err := scanIntakeEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresIntakeRepository) SumDay(ctx context.Context, userID uuid.UUID, day hydration.Day) (float64, error) {
	var total float64
	row := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_oz), 0) FROM intake_entries WHERE user_id = $1 AND day = $2`,
		userID, day.Time(),
	)
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func scanIntakeEntry(row database.Row) (hydration.IntakeEntry, error) {
	var e hydration.IntakeEntry
	var day time.Time
	if err := row.Scan(&e.ID, &e.UserID, &day, &e.AmountOz, &e.GoalAtLogTime, &e.CreatedAt); err != nil {
		if database.IsNoRows(err) {
			return hydration.IntakeEntry{}, ErrEntryNotFound
		}
		return hydration.IntakeEntry{}, err
	}
	e.Date = hydration.Day(day.Format(hydration.DayLayout))
	return e, nil
}

var _ IntakeRepository = (*PostgresIntakeRepository)(nil)
