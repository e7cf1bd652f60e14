package usecase

import (
	"context"
	"errors"

	"hydroguide/internal/domain/hydration"
	"hydroguide/internal/repository"

	"github.com/google/uuid"
)

// DayView is the status of one day as the caller is allowed to see it. A
// locked day carries no aggregate.
type DayView struct {
	Date      hydration.Day
	Locked    bool
	Aggregate *hydration.DayAggregate
}

type MonthView struct {
	Month hydration.Month
	IsPro bool
	Cells []hydration.CalendarCell
}

type AdherenceUsecase interface {
	GetDayStatus(ctx context.Context, userID uuid.UUID, day, today hydration.Day) (DayView, error)
	GetMonthView(ctx context.Context, userID uuid.UUID, month hydration.Month, today hydration.Day) (MonthView, error)
	GetVisibility(ctx context.Context, userID uuid.UUID, day, today hydration.Day) (hydration.Visibility, error)
	GetVisibleRange(ctx context.Context, userID uuid.UUID, start, end, today hydration.Day) ([]DayView, error)
}

type Adherence struct {
	ledger   LedgerUsecase
	profiles repository.ProfileRepository
}

func NewAdherenceUsecase(ledger LedgerUsecase, profiles repository.ProfileRepository) *Adherence {
	return &Adherence{ledger: ledger, profiles: profiles}
}

// MaxRangeDays bounds GetVisibleRange.
const MaxRangeDays = 366

// account is the slice of the profile that adherence depends on.
type account struct {
	isPro  bool
	goalOz int
}

func (u *Adherence) account(ctx context.Context, userID uuid.UUID) (account, error) {
	p, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return account{goalOz: hydration.DefaultGoalOz}, nil
		}
		return account{}, storageErr(err)
	}
	return account{isPro: p.IsPro, goalOz: p.DailyGoalOz}, nil
}

func (u *Adherence) GetDayStatus(ctx context.Context, userID uuid.UUID, day, today hydration.Day) (DayView, error) {
	if userID == uuid.Nil {
		return DayView{}, ErrUnauthorized
	}
	acc, err := u.account(ctx, userID)
	if err != nil {
		return DayView{}, err
	}
	if hydration.VisibilityOf(day, acc.isPro, today) == hydration.Locked {
		return DayView{Date: day, Locked: true}, nil
	}

	totals, err := u.ledger.GetRange(ctx, userID, day, day)
	if err != nil {
		return DayView{}, err
	}
	agg := aggregateFor(day, totals, acc.goalOz)
	return DayView{Date: day, Aggregate: &agg}, nil
}

// GetMonthView builds the calendar grid of month. For free accounts the ledger
// is only read from the first visible day onward.
func (u *Adherence) GetMonthView(ctx context.Context, userID uuid.UUID, month hydration.Month, today hydration.Day) (MonthView, error) {
	if userID == uuid.Nil {
		return MonthView{}, ErrUnauthorized
	}
	acc, err := u.account(ctx, userID)
	if err != nil {
		return MonthView{}, err
	}

	start, end := month.FirstDay(), month.LastDay()
	if !acc.isPro {
		if from := hydration.VisibleFrom(today); from.After(start) {
			start = from
		}
	}

	totals := map[hydration.Day]hydration.DayTotal{}
	if !start.After(end) {
		totals, err = u.ledger.GetRange(ctx, userID, start, end)
		if err != nil {
			return MonthView{}, err
		}
	}

	cells := hydration.MonthGrid(month)
	for i := range cells {
		c := &cells[i]
		if c.Padding {
			continue
		}
		if hydration.VisibilityOf(c.Date, acc.isPro, today) == hydration.Locked {
			c.Locked = true
			continue
		}
		agg := aggregateFor(c.Date, totals, acc.goalOz)
		c.Day = &agg
	}

	return MonthView{Month: month, IsPro: acc.isPro, Cells: cells}, nil
}

func (u *Adherence) GetVisibility(ctx context.Context, userID uuid.UUID, day, today hydration.Day) (hydration.Visibility, error) {
	if userID == uuid.Nil {
		return "", ErrUnauthorized
	}
	acc, err := u.account(ctx, userID)
	if err != nil {
		return "", err
	}
	return hydration.VisibilityOf(day, acc.isPro, today), nil
}

// GetVisibleRange returns one view per day of the inclusive range, in order.
// Locked days are returned without totals.
func (u *Adherence) GetVisibleRange(ctx context.Context, userID uuid.UUID, start, end, today hydration.Day) ([]DayView, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if start.After(end) || start.AddDays(MaxRangeDays).Before(end) {
		return nil, ErrInvalidInput
	}
	acc, err := u.account(ctx, userID)
	if err != nil {
		return nil, err
	}

	from := start
	if !acc.isPro {
		if v := hydration.VisibleFrom(today); v.After(from) {
			from = v
		}
	}
	totals := map[hydration.Day]hydration.DayTotal{}
	if !from.After(end) {
		totals, err = u.ledger.GetRange(ctx, userID, from, end)
		if err != nil {
			return nil, err
		}
	}

	out := make([]DayView, 0)
	for d := start; !d.After(end); d = d.AddDays(1) {
		if d.Before(from) {
			out = append(out, DayView{Date: d, Locked: true})
			continue
		}
		agg := aggregateFor(d, totals, acc.goalOz)
		out = append(out, DayView{Date: d, Aggregate: &agg})
	}
	return out, nil
}

// aggregateFor uses the day's own goal snapshot when it has entries and the
// current goal otherwise.
func aggregateFor(d hydration.Day, totals map[hydration.Day]hydration.DayTotal, currentGoal int) hydration.DayAggregate {
	t, ok := totals[d]
	if !ok {
		return hydration.NewDayAggregate(d, 0, float64(currentGoal))
	}
	return hydration.NewDayAggregate(d, t.TotalOz, float64(t.GoalOz))
}

var _ AdherenceUsecase = (*Adherence)(nil)
