package usecase

import (
	"context"
	"errors"
	"log"
	"math"

	"hydroguide/internal/domain/hydration"
	"hydroguide/internal/repository"

	"github.com/google/uuid"
)

// IntakeNotifier is told about every committed ledger change so other sessions
// of the same user can resync.
type IntakeNotifier interface {
	NotifyIntakeUpdated(userID uuid.UUID, day hydration.Day, totalOz float64, goalOz int)
}

// LogIntakeInput carries the caller's current local day. Entries are never
// backdated.
type LogIntakeInput struct {
	UserID   uuid.UUID
	AmountOz float64
	Day      hydration.Day
}

type LedgerUsecase interface {
	LogIntake(ctx context.Context, in LogIntakeInput) (hydration.IntakeEntry, error)
	UndoLast(ctx context.Context, userID uuid.UUID, day, today hydration.Day) (hydration.IntakeEntry, error)
	TodayTotal(ctx context.Context, userID uuid.UUID, today hydration.Day) (float64, error)
	GetRange(ctx context.Context, userID uuid.UUID, start, end hydration.Day) (map[hydration.Day]hydration.DayTotal, error)
}

type Ledger struct {
	entries  repository.IntakeRepository
	profiles repository.ProfileRepository
	notifier IntakeNotifier
	logger   *log.Logger
	newID    func() uuid.UUID
}

func NewLedgerUsecase(entries repository.IntakeRepository, profiles repository.ProfileRepository, notifier IntakeNotifier, logger *log.Logger) *Ledger {
	return &Ledger{entries: entries, profiles: profiles, notifier: notifier, logger: logger, newID: uuid.New}
}

// LogIntake appends an entry stamped with the user's current goal. Users
// without a profile are stamped with DefaultGoalOz.
func (u *Ledger) LogIntake(ctx context.Context, in LogIntakeInput) (hydration.IntakeEntry, error) {
	if in.UserID == uuid.Nil {
		return hydration.IntakeEntry{}, ErrUnauthorized
	}
	if !validAmount(in.AmountOz) {
		return hydration.IntakeEntry{}, ErrInvalidAmount
	}
	if _, err := hydration.ParseDay(string(in.Day)); err != nil {
		return hydration.IntakeEntry{}, ErrInvalidInput
	}

	goal := hydration.DefaultGoalOz
	p, err := u.profiles.GetByUserID(ctx, in.UserID)
	switch {
	case err == nil:
		goal = p.DailyGoalOz
	case errors.Is(err, repository.ErrProfileNotFound):
	default:
		return hydration.IntakeEntry{}, storageErr(err)
	}

	entry, err := u.entries.Insert(ctx, hydration.IntakeEntry{
		ID:            u.newID(),
		UserID:        in.UserID,
		Date:          in.Day,
		AmountOz:      in.AmountOz,
		GoalAtLogTime: goal,
	})
	if err != nil {
		return hydration.IntakeEntry{}, storageErr(err)
	}

	u.notify(ctx, in.UserID, in.Day)
	return entry, nil
}

// UndoLast removes the most recent entry of the day and returns it. A day
// outside the caller's visible history is refused with ErrDayLocked before
// anything is read or written.
func (u *Ledger) UndoLast(ctx context.Context, userID uuid.UUID, day, today hydration.Day) (hydration.IntakeEntry, error) {
	if userID == uuid.Nil {
		return hydration.IntakeEntry{}, ErrUnauthorized
	}
	if _, err := hydration.ParseDay(string(day)); err != nil {
		return hydration.IntakeEntry{}, ErrInvalidInput
	}

	isPro := false
	p, err := u.profiles.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		isPro = p.IsPro
	case errors.Is(err, repository.ErrProfileNotFound):
	default:
		return hydration.IntakeEntry{}, storageErr(err)
	}
	if hydration.VisibilityOf(day, isPro, today) == hydration.Locked {
		return hydration.IntakeEntry{}, ErrDayLocked
	}

	removed, err := u.entries.DeleteLatest(ctx, userID, day)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return hydration.IntakeEntry{}, ErrNothingToUndo
		}
		return hydration.IntakeEntry{}, storageErr(err)
	}

	u.notify(ctx, userID, day)
	return removed, nil
}

func (u *Ledger) TodayTotal(ctx context.Context, userID uuid.UUID, today hydration.Day) (float64, error) {
	if userID == uuid.Nil {
		return 0, ErrUnauthorized
	}
	total, err := u.entries.SumDay(ctx, userID, today)
	if err != nil {
		return 0, storageErr(err)
	}
	return total, nil
}

// GetRange returns per-day totals for the inclusive range. Days without
// entries are absent from the map.
func (u *Ledger) GetRange(ctx context.Context, userID uuid.UUID, start, end hydration.Day) (map[hydration.Day]hydration.DayTotal, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if start.After(end) {
		return nil, ErrInvalidInput
	}
	entries, err := u.entries.ListRange(ctx, userID, start, end)
	if err != nil {
		return nil, storageErr(err)
	}
	return hydration.SumByDay(entries), nil
}

func (u *Ledger) notify(ctx context.Context, userID uuid.UUID, day hydration.Day) {
	if u.notifier == nil {
		return
	}
	entries, err := u.entries.ListRange(ctx, userID, day, day)
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("[Ledger] notify skipped user=%s day=%s: %v", userID, day, err)
		}
		return
	}
	t, ok := hydration.SumByDay(entries)[day]
	if !ok {
		t.GoalOz = hydration.DefaultGoalOz
		if p, err := u.profiles.GetByUserID(ctx, userID); err == nil {
			t.GoalOz = p.DailyGoalOz
		}
	}
	u.notifier.NotifyIntakeUpdated(userID, day, t.TotalOz, t.GoalOz)
}

func validAmount(oz float64) bool {
	return oz > 0 && !math.IsInf(oz, 0) && !math.IsNaN(oz)
}

var _ LedgerUsecase = (*Ledger)(nil)
