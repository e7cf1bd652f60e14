package client

import (
	"context"
	"errors"
	"sync"

	"hydroguide/internal/domain/hydration"
)

var (
	ErrViewClosed = errors.New("client: recommendation view closed")
	// ErrSuperseded is returned by a Load whose result was discarded because a
	// newer Load started or the view was closed while it ran.
	ErrSuperseded = errors.New("client: recommendation load superseded")
)

type RecommendationSource interface {
	Recommendations(ctx context.Context) ([]hydration.Recommendation, error)
}

type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateReady
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type RecommendationSnapshot struct {
	State LoadState
	Items []hydration.Recommendation
	Err   error
}

// RecommendationView holds the latest recommendations for a screen. Only the
// most recent Load may publish; anything finishing after Close is dropped.
type RecommendationView struct {
	src RecommendationSource

	mu     sync.Mutex
	gen    uint64
	closed bool
	cancel context.CancelFunc
	snap   RecommendationSnapshot
}

func NewRecommendationView(src RecommendationSource) *RecommendationView {
	return &RecommendationView{src: src}
}

// Load fetches recommendations, cancelling any load still in flight. Calling
// it again after a failure is the retry.
func (v *RecommendationView) Load(ctx context.Context) ([]hydration.Recommendation, error) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil, ErrViewClosed
	}
	if v.cancel != nil {
		v.cancel()
	}
	v.gen++
	gen := v.gen
	ctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.snap = RecommendationSnapshot{State: StateLoading, Items: v.snap.Items}
	v.mu.Unlock()
	defer cancel()

	items, err := v.src.Recommendations(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || gen != v.gen {
		return nil, ErrSuperseded
	}
	v.cancel = nil
	if err != nil {
		v.snap = RecommendationSnapshot{State: StateFailed, Err: err}
		return nil, err
	}
	v.snap = RecommendationSnapshot{State: StateReady, Items: items}
	return items, nil
}

func (v *RecommendationView) Snapshot() RecommendationSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snap
}

// Close cancels the in-flight load. Later results are discarded.
func (v *RecommendationView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	v.gen++
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}
