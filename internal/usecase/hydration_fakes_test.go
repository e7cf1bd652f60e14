package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"hydroguide/internal/domain/hydration"
	"hydroguide/internal/repository"

	"github.com/google/uuid"
)

type memIntakeRepo struct {
	mu      sync.Mutex
	entries []hydration.IntakeEntry
	clock   time.Time
	err     error
	calls   int
}

func newMemIntakeRepo() *memIntakeRepo {
	return &memIntakeRepo{clock: time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)}
}

func (m *memIntakeRepo) Insert(_ context.Context, e hydration.IntakeEntry) (hydration.IntakeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return hydration.IntakeEntry{}, m.err
	}
	m.clock = m.clock.Add(time.Minute)
	e.CreatedAt = m.clock
	m.entries = append(m.entries, e)
	return e, nil
}

func (m *memIntakeRepo) DeleteLatest(_ context.Context, userID uuid.UUID, day hydration.Day) (hydration.IntakeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return hydration.IntakeEntry{}, m.err
	}
	idx := -1
	for i, e := range m.entries {
		if e.UserID != userID || e.Date != day {
			continue
		}
		if idx < 0 || !e.CreatedAt.Before(m.entries[idx].CreatedAt) {
			idx = i
		}
	}
	if idx < 0 {
		return hydration.IntakeEntry{}, repository.ErrEntryNotFound
	}
	removed := m.entries[idx]
	m.entries = append(m.entries[:idx], m.entries[idx+1:]...)
	return removed, nil
}

func (m *memIntakeRepo) ListRange(_ context.Context, userID uuid.UUID, start, end hydration.Day) ([]hydration.IntakeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]hydration.IntakeEntry, 0)
	for _, e := range m.entries {
		if e.UserID == userID && !e.Date.Before(start) && !e.Date.After(end) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memIntakeRepo) SumDay(_ context.Context, userID uuid.UUID, day hydration.Day) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	var total float64
	for _, e := range m.entries {
		if e.UserID == userID && e.Date == day {
			total += e.AmountOz
		}
	}
	return total, nil
}

func (m *memIntakeRepo) add(userID uuid.UUID, day hydration.Day, oz float64, goal int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Minute)
	m.entries = append(m.entries, hydration.IntakeEntry{
		ID: uuid.New(), UserID: userID, Date: day, AmountOz: oz, GoalAtLogTime: goal, CreatedAt: m.clock,
	})
}

type memProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]hydration.Profile
	err      error
	upserts  int
}

func newMemProfileRepo(ps ...hydration.Profile) *memProfileRepo {
	m := &memProfileRepo{profiles: map[uuid.UUID]hydration.Profile{}}
	for _, p := range ps {
		if p.ThemeID == "" {
			p.ThemeID = hydration.DefaultThemeID
		}
		m.profiles[p.UserID] = p
	}
	return m
}

func (m *memProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (hydration.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return hydration.Profile{}, m.err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return hydration.Profile{}, repository.ErrProfileNotFound
	}
	return p, nil
}

func (m *memProfileRepo) Upsert(_ context.Context, p hydration.Profile) (hydration.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return hydration.Profile{}, m.err
	}
	m.upserts++
	if old, ok := m.profiles[p.UserID]; ok {
		p.IsPro = old.IsPro
		p.ThemeID = old.ThemeID
		p.StripeCustomerID = old.StripeCustomerID
	} else {
		p.ThemeID = hydration.DefaultThemeID
	}
	m.profiles[p.UserID] = p
	return p, nil
}

func (m *memProfileRepo) UpdateBottleCapacity(_ context.Context, userID uuid.UUID, oz float64) error {
	return m.update(userID, func(p *hydration.Profile) { p.BottleCapacityOz = oz })
}

func (m *memProfileRepo) UpdateTheme(_ context.Context, userID uuid.UUID, themeID string) error {
	return m.update(userID, func(p *hydration.Profile) { p.ThemeID = themeID })
}

func (m *memProfileRepo) ActivatePro(_ context.Context, userID uuid.UUID, customerID string, themeID string) error {
	return m.update(userID, func(p *hydration.Profile) {
		p.IsPro = true
		p.StripeCustomerID = customerID
		p.ThemeID = themeID
	})
}

func (m *memProfileRepo) DeactivateProByCustomer(_ context.Context, customerID string, themeID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	var n int64
	for id, p := range m.profiles {
		if p.StripeCustomerID == customerID {
			p.IsPro = false
			p.ThemeID = themeID
			m.profiles[id] = p
			n++
		}
	}
	return n, nil
}

func (m *memProfileRepo) update(userID uuid.UUID, fn func(p *hydration.Profile)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return repository.ErrProfileNotFound
	}
	fn(&p)
	m.profiles[userID] = p
	return nil
}

type notification struct {
	userID  uuid.UUID
	day     hydration.Day
	totalOz float64
	goalOz  int
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (r *recordingNotifier) NotifyIntakeUpdated(userID uuid.UUID, day hydration.Day, totalOz float64, goalOz int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, notification{userID: userID, day: day, totalOz: totalOz, goalOz: goalOz})
}

type fakeGenerator struct {
	raw   string
	err   error
	calls int
	last  hydration.RecommendationRequest
	block bool
}

func (f *fakeGenerator) Generate(ctx context.Context, req hydration.RecommendationRequest) (string, error) {
	f.calls++
	f.last = req
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.raw, f.err
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	keys map[string]string
	err  error
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, keys: map[string]string{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *memCache) SetIfNotExists(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	if _, ok := c.keys[key]; ok {
		return false, nil
	}
	c.keys[key] = value
	return true, nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.keys, key)
	delete(c.data, key)
	return nil
}
