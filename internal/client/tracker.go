package client

import (
	"context"
	"errors"
	"math"
	"sync"

	"hydroguide/internal/delivery/http/dto"
	"hydroguide/internal/domain/hydration"
	"hydroguide/internal/pkg/optimistic"

	"github.com/google/uuid"
)

var ErrInvalidAmount = errors.New("client: amount must be a positive number of ounces")

// IntakeAPI is the part of API the tracker drives.
type IntakeAPI interface {
	LogIntake(ctx context.Context, amountOz float64) (dto.IntakeMutationResponse, error)
	Undo(ctx context.Context) (dto.IntakeMutationResponse, error)
	Today(ctx context.Context) (dto.DayStatusResponse, error)
}

type confirmedEntry struct {
	id       uuid.UUID
	amountOz float64
}

// Tracker is the local view of today's total. Changes show up immediately and
// are sent to the server one at a time, in the order they were made.
type Tracker struct {
	api     IntakeAPI
	counter *optimistic.Counter

	mu        sync.Mutex
	goalOz    float64
	confirmed []confirmedEntry
	tail      chan struct{}
}

func NewTracker(api IntakeAPI) *Tracker {
	tail := make(chan struct{})
	close(tail)
	return &Tracker{api: api, counter: optimistic.NewCounter(0), goalOz: hydration.DefaultGoalOz, tail: tail}
}

// Sync loads the authoritative total and goal. Unsent changes stay applied.
func (t *Tracker) Sync(ctx context.Context) error {
	st, err := t.api.Today(ctx)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if st.GoalOz != nil {
		t.goalOz = *st.GoalOz
	}
	total := 0.0
	if st.TotalOz != nil {
		total = *st.TotalOz
	}
	t.counter.Reset(total)
	return nil
}

// ApplyRemote takes a total pushed by the server for today.
func (t *Tracker) ApplyRemote(totalOz float64, goalOz int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if goalOz > 0 {
		t.goalOz = float64(goalOz)
	}
	t.counter.Reset(totalOz)
}

func (t *Tracker) TotalOz() float64 { return t.counter.Value() }

func (t *Tracker) Pending() int { return t.counter.PendingCount() }

func (t *Tracker) GoalOz() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.goalOz
}

func (t *Tracker) Aggregate(today hydration.Day) hydration.DayAggregate {
	return hydration.NewDayAggregate(today, t.TotalOz(), t.GoalOz())
}

// Add applies amountOz at once and blocks until the server has accepted or
// rejected it. A rejected add is rolled back.
func (t *Tracker) Add(ctx context.Context, amountOz float64) error {
	if !(amountOz > 0) || math.IsInf(amountOz, 0) {
		return ErrInvalidAmount
	}

	u := t.counter.Apply(amountOz)
	prev, done := t.enqueue()

	if err := t.wait(ctx, prev, done); err != nil {
		_ = u.Rollback()
		return err
	}
	defer close(done)

	resp, err := t.api.LogIntake(ctx, amountOz)
	if err != nil {
		_ = u.Rollback()
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_ = u.Confirm()
	if resp.Entry != nil {
		t.confirmed = append(t.confirmed, confirmedEntry{id: resp.Entry.ID, amountOz: resp.Entry.AmountOz})
	}
	if resp.TotalOz != nil {
		t.counter.Reset(*resp.TotalOz)
	}
	return nil
}

// Undo removes the latest entry once every earlier add has settled. It
// reports false when the server had nothing to undo.
func (t *Tracker) Undo(ctx context.Context) (bool, error) {
	prev, done := t.enqueue()
	if err := t.wait(ctx, prev, done); err != nil {
		return false, err
	}
	defer close(done)

	var u *optimistic.Update
	var target confirmedEntry
	t.mu.Lock()
	if n := len(t.confirmed); n > 0 {
		target = t.confirmed[n-1]
		u = t.counter.Apply(-target.amountOz)
	}
	t.mu.Unlock()

	resp, err := t.api.Undo(ctx)
	if err != nil {
		_ = u.Rollback()
		return false, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if resp.Undone == nil || !*resp.Undone || resp.Entry == nil {
		_ = u.Rollback()
		t.confirmed = nil
		t.counter.Reset(0)
		return false, nil
	}

	removed := resp.Entry
	if u != nil && removed.ID == target.id {
		_ = u.Confirm()
	} else {
		// The server removed an entry this tracker never saw.
		_ = u.Rollback()
		_ = t.counter.Apply(-removed.AmountOz).Confirm()
	}
	t.dropConfirmed(removed.ID)
	if resp.TotalOz != nil {
		t.counter.Reset(*resp.TotalOz)
	}
	return true, nil
}

func (t *Tracker) dropConfirmed(id uuid.UUID) {
	for i := len(t.confirmed) - 1; i >= 0; i-- {
		if t.confirmed[i].id == id {
			t.confirmed = append(t.confirmed[:i], t.confirmed[i+1:]...)
			return
		}
	}
}

// enqueue reserves the next slot on the wire. The caller must close done.
func (t *Tracker) enqueue() (prev <-chan struct{}, done chan struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	done = make(chan struct{})
	prev, t.tail = t.tail, done
	return prev, done
}

// wait blocks until the previous operation finished. On cancellation the slot
// is handed on once prev completes, so later operations keep their order.
func (t *Tracker) wait(ctx context.Context, prev <-chan struct{}, done chan struct{}) error {
	select {
	case <-prev:
		return nil
	case <-ctx.Done():
		go func() {
			<-prev
			close(done)
		}()
		return ctx.Err()
	}
}
