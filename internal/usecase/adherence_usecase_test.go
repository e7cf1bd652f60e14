package usecase

import (
	"context"
	"errors"
	"testing"

	"hydroguide/internal/domain/hydration"

	"github.com/google/uuid"
)

func newAdherence(repo *memIntakeRepo, profiles *memProfileRepo) *Adherence {
	return NewAdherenceUsecase(NewLedgerUsecase(repo, profiles, nil, nil), profiles)
}

func TestAdherence_GetDayStatus_LockedDayNeverReadsLedger(t *testing.T) {
	userID := uuid.New()
	repo := newMemIntakeRepo()
	repo.add(userID, today.AddDays(-8), 50, 100)
	uc := newAdherence(repo, newMemProfileRepo(hydration.Profile{UserID: userID, DailyGoalOz: 100}))
	repo.calls = 0

	v, err := uc.GetDayStatus(context.Background(), userID, today.AddDays(-8), today)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !v.Locked || v.Aggregate != nil {
		t.Fatalf("expected locked view without aggregate, got %+v", v)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no ledger reads for a locked day, got %d", repo.calls)
	}
}

func TestAdherence_GetDayStatus_ProSeesOldHistory(t *testing.T) {
	userID := uuid.New()
	repo := newMemIntakeRepo()
	old := today.AddDays(-400)
	repo.add(userID, old, 120, 100)
	uc := newAdherence(repo, newMemProfileRepo(hydration.Profile{UserID: userID, DailyGoalOz: 90, IsPro: true}))

	v, err := uc.GetDayStatus(context.Background(), userID, old, today)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v.Locked || v.Aggregate == nil {
		t.Fatalf("expected visible day, got %+v", v)
	}
	if v.Aggregate.Status != hydration.StatusMet || v.Aggregate.GoalOz != 100 {
		t.Fatalf("expected met against snapshot goal 100, got %+v", v.Aggregate)
	}
}

func TestAdherence_GetDayStatus_EmptyDayUsesCurrentGoal(t *testing.T) {
	userID := uuid.New()
	uc := newAdherence(newMemIntakeRepo(), newMemProfileRepo(hydration.Profile{UserID: userID, DailyGoalOz: 107}))

	v, err := uc.GetDayStatus(context.Background(), userID, today, today)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v.Aggregate.Status != hydration.StatusEmpty || v.Aggregate.GoalOz != 107 || v.Aggregate.Percent != 0 {
		t.Fatalf("unexpected aggregate: %+v", v.Aggregate)
	}
}

func TestAdherence_GetDayStatus_ZeroGoalIsMet(t *testing.T) {
	userID := uuid.New()
	repo := newMemIntakeRepo()
	repo.add(userID, today, 10, 0)
	uc := newAdherence(repo, newMemProfileRepo(hydration.Profile{UserID: userID}))

	v, err := uc.GetDayStatus(context.Background(), userID, today, today)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v.Aggregate.Status != hydration.StatusMet {
		t.Fatalf("expected met, got %s", v.Aggregate.Status)
	}
	if v.Aggregate.Percent != 10 {
		t.Fatalf("expected percent against safe goal 100, got %v", v.Aggregate.Percent)
	}
}

func TestAdherence_GetMonthView_FreeAccount(t *testing.T) {
	userID := uuid.New()
	repo := newMemIntakeRepo()
	repo.add(userID, "2026-10-01", 100, 100) // locked
	repo.add(userID, "2026-10-08", 40, 100)  // exactly 7 days back, visible
	repo.add(userID, "2026-10-14", 100, 100)
	uc := newAdherence(repo, newMemProfileRepo(hydration.Profile{UserID: userID, DailyGoalOz: 100}))

	month, _ := hydration.ParseMonth("2026-10")
	v, err := uc.GetMonthView(context.Background(), userID, month, today)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(v.Cells)%7 != 0 {
		t.Fatalf("expected complete weeks, got %d cells", len(v.Cells))
	}

	byDate := map[hydration.Day]hydration.CalendarCell{}
	for _, c := range v.Cells {
		if c.Padding {
			if c.Day != nil || c.Locked {
				t.Fatalf("padding cell %s must carry no state", c.Date)
			}
			continue
		}
		byDate[c.Date] = c
	}

	if c := byDate["2026-10-01"]; !c.Locked || c.Day != nil {
		t.Fatalf("expected 2026-10-01 locked, got %+v", c)
	}
	if c := byDate["2026-10-07"]; !c.Locked {
		t.Fatalf("expected 2026-10-07 locked")
	}
	if c := byDate["2026-10-08"]; c.Locked || c.Day == nil || c.Day.Status != hydration.StatusStarted {
		t.Fatalf("expected 2026-10-08 started, got %+v", c)
	}
	if c := byDate["2026-10-14"]; c.Day == nil || c.Day.Status != hydration.StatusMet {
		t.Fatalf("expected 2026-10-14 met, got %+v", c)
	}
	if c := byDate["2026-10-20"]; c.Locked || c.Day == nil || c.Day.Status != hydration.StatusEmpty {
		t.Fatalf("expected future day visible and empty, got %+v", c)
	}
}

func TestAdherence_GetMonthView_FullyLockedMonthSkipsLedger(t *testing.T) {
	userID := uuid.New()
	repo := newMemIntakeRepo()
	uc := newAdherence(repo, newMemProfileRepo(hydration.Profile{UserID: userID, DailyGoalOz: 100}))

	month, _ := hydration.ParseMonth("2026-08")
	v, err := uc.GetMonthView(context.Background(), userID, month, today)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no ledger reads, got %d", repo.calls)
	}
	for _, c := range v.Cells {
		if !c.Padding && !c.Locked {
			t.Fatalf("expected %s locked", c.Date)
		}
	}
}

func TestAdherence_GetVisibility(t *testing.T) {
	userID := uuid.New()
	uc := newAdherence(newMemIntakeRepo(), newMemProfileRepo())

	tests := []struct {
		day  hydration.Day
		want hydration.Visibility
	}{
		{today.AddDays(-8), hydration.Locked},
		{today.AddDays(-7), hydration.Visible},
		{today, hydration.Visible},
	}
	for _, tt := range tests {
		got, err := uc.GetVisibility(context.Background(), userID, tt.day, today)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if got != tt.want {
			t.Fatalf("%s: expected %s, got %s", tt.day, tt.want, got)
		}
	}
}

func TestAdherence_GetVisibleRange_MasksLockedDays(t *testing.T) {
	userID := uuid.New()
	repo := newMemIntakeRepo()
	repo.add(userID, today.AddDays(-9), 64, 100)
	repo.add(userID, today.AddDays(-1), 32, 100)
	uc := newAdherence(repo, newMemProfileRepo(hydration.Profile{UserID: userID, DailyGoalOz: 100}))

	views, err := uc.GetVisibleRange(context.Background(), userID, today.AddDays(-10), today, today)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(views) != 11 {
		t.Fatalf("expected 11 days, got %d", len(views))
	}
	for _, v := range views[:3] {
		if !v.Locked || v.Aggregate != nil {
			t.Fatalf("expected %s locked, got %+v", v.Date, v)
		}
	}
	if v := views[9]; v.Aggregate == nil || v.Aggregate.TotalOz != 32 {
		t.Fatalf("expected yesterday total 32, got %+v", v)
	}

	if _, err := uc.GetVisibleRange(context.Background(), userID, today, today.AddDays(-1), today); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAdherence_StorageFailure(t *testing.T) {
	profiles := newMemProfileRepo()
	profiles.err = errors.New("timeout")
	uc := newAdherence(newMemIntakeRepo(), profiles)

	_, err := uc.GetDayStatus(context.Background(), uuid.New(), today, today)
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}
