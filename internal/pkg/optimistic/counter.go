// Package optimistic tracks a numeric value that is updated locally before
// the server confirms the change.
package optimistic

import (
	"errors"
	"sync"
)

type State int

const (
	Pending State = iota
	Confirmed
	RolledBack
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case RolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

var ErrSettled = errors.New("optimistic: update already settled")

// Counter is a confirmed base plus the deltas of all pending updates.
type Counter struct {
	mu      sync.Mutex
	base    float64
	pending map[*Update]struct{}
}

func NewCounter(base float64) *Counter {
	return &Counter{base: base, pending: map[*Update]struct{}{}}
}

// Update is one optimistic change. It starts Pending and settles exactly once.
type Update struct {
	c     *Counter
	delta float64
	state State
}

// Apply makes delta visible immediately and returns the pending update.
func (c *Counter) Apply(delta float64) *Update {
	c.mu.Lock()
	defer c.mu.Unlock()
	u := &Update{c: c, delta: delta, state: Pending}
	c.pending[u] = struct{}{}
	return u
}

func (c *Counter) Value() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.base
	for u := range c.pending {
		v += u.delta
	}
	return v
}

// Reset replaces the confirmed base with an authoritative value. Pending
// updates stay applied on top of it.
func (c *Counter) Reset(base float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = base
}

func (c *Counter) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (u *Update) Delta() float64 { return u.delta }

func (u *Update) State() State {
	u.c.mu.Lock()
	defer u.c.mu.Unlock()
	return u.state
}

// Confirm folds the delta into the base.
func (u *Update) Confirm() error {
	return u.settle(Confirmed)
}

// Rollback withdraws the delta, restoring the value the update was applied to.
func (u *Update) Rollback() error {
	return u.settle(RolledBack)
}

func (u *Update) settle(to State) error {
	if u == nil {
		return nil
	}
	c := u.c
	c.mu.Lock()
	defer c.mu.Unlock()
	if u.state != Pending {
		return ErrSettled
	}
	delete(c.pending, u)
	if to == Confirmed {
		c.base += u.delta
	}
	u.state = to
	return nil
}
