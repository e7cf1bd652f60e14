package usecase

import (
	"context"
	"errors"
	"testing"

	"hydroguide/internal/domain/hydration"

	"github.com/google/uuid"
)

func ptr[T any](v T) *T { return &v }

func validInput() ProfileInput {
	return ProfileInput{
		WeightLb:      ptr(160.0),
		Age:           ptr(30),
		Gender:        "male",
		ActivityLevel: "moderate",
		Climate:       "temperate",
	}
}

func TestProfile_SaveProfile_ComputesGoal(t *testing.T) {
	repo := newMemProfileRepo()
	uc := NewProfileUsecase(repo)
	userID := uuid.New()

	p, err := uc.SaveProfile(context.Background(), userID, validInput())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.DailyGoalOz != hydration.ComputeDailyGoal(p) || p.DailyGoalOz != 119 {
		t.Fatalf("expected goal 119, got %d", p.DailyGoalOz)
	}
	if p.BottleCapacityOz != hydration.DefaultBottleCapacityOz {
		t.Fatalf("expected default bottle, got %v", p.BottleCapacityOz)
	}
	if p.ThemeID != hydration.DefaultThemeID {
		t.Fatalf("expected default theme, got %q", p.ThemeID)
	}
}

func TestProfile_SaveProfile_RecomputesOnEdit(t *testing.T) {
	repo := newMemProfileRepo()
	uc := NewProfileUsecase(repo)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := uc.SaveProfile(ctx, userID, validInput()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := uc.SetBottleCapacity(ctx, userID, 32); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	in := validInput()
	in.Climate = "hot"
	p, err := uc.SaveProfile(ctx, userID, in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.DailyGoalOz != 131 {
		t.Fatalf("expected recomputed goal 131, got %d", p.DailyGoalOz)
	}
	if p.BottleCapacityOz != 32 {
		t.Fatalf("expected stored bottle capacity kept, got %v", p.BottleCapacityOz)
	}
}

func TestProfile_SaveProfile_Incomplete(t *testing.T) {
	repo := newMemProfileRepo()
	uc := NewProfileUsecase(repo)

	in := ProfileInput{WeightLb: ptr(-1.0), Gender: "robot", ActivityLevel: "moderate"}
	_, err := uc.SaveProfile(context.Background(), uuid.New(), in)
	if !errors.Is(err, ErrProfileIncomplete) {
		t.Fatalf("expected ErrProfileIncomplete, got %v", err)
	}

	var pe *ProfileIncompleteError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProfileIncompleteError, got %T", err)
	}
	for _, f := range []string{"weightLb", "age", "gender", "climate"} {
		if pe.Fields[f] == "" {
			t.Fatalf("expected guidance for %s, got %v", f, pe.Fields)
		}
	}
	if _, ok := pe.Fields["activityLevel"]; ok {
		t.Fatalf("did not expect guidance for a valid field")
	}
	if repo.upserts != 0 {
		t.Fatalf("expected upsert blocked")
	}
}

func TestProfile_SetBottleCapacity(t *testing.T) {
	userID := uuid.New()
	uc := NewProfileUsecase(newMemProfileRepo(hydration.Profile{UserID: userID}))

	if err := uc.SetBottleCapacity(context.Background(), userID, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := uc.SetBottleCapacity(context.Background(), uuid.New(), 20); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestProfile_SetTheme(t *testing.T) {
	free := uuid.New()
	pro := uuid.New()
	uc := NewProfileUsecase(newMemProfileRepo(
		hydration.Profile{UserID: free},
		hydration.Profile{UserID: pro, IsPro: true},
	))
	ctx := context.Background()

	if _, err := uc.SetTheme(ctx, free, "gold"); !errors.Is(err, ErrThemeLocked) {
		t.Fatalf("expected ErrThemeLocked, got %v", err)
	}
	if _, err := uc.SetTheme(ctx, free, "cyan"); err != nil {
		t.Fatalf("free user should pick cyan: %v", err)
	}
	if _, err := uc.SetTheme(ctx, pro, "neon"); !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
	th, err := uc.SetTheme(ctx, pro, "Purple")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if th.ID != hydration.ThemePurple {
		t.Fatalf("expected purple, got %q", th.ID)
	}
}

func TestProfile_SetProStatus(t *testing.T) {
	userID := uuid.New()
	repo := newMemProfileRepo(hydration.Profile{UserID: userID, ThemeID: hydration.ThemeCyan})
	uc := NewProfileUsecase(repo)
	ctx := context.Background()

	if _, err := uc.SetProStatus(ctx, ProStatusChange{UserID: userID, CustomerID: "cus_1", Active: true}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	p, _ := uc.GetProfile(ctx, userID)
	if !p.IsPro || p.ThemeID != hydration.ThemeGold || p.StripeCustomerID != "cus_1" {
		t.Fatalf("unexpected profile after upgrade: %+v", p)
	}

	n, err := uc.SetProStatus(ctx, ProStatusChange{CustomerID: "cus_1"})
	if err != nil || n != 1 {
		t.Fatalf("expected 1 profile downgraded, got %d %v", n, err)
	}
	p, _ = uc.GetProfile(ctx, userID)
	if p.IsPro || p.ThemeID != hydration.ThemeCyan {
		t.Fatalf("unexpected profile after cancel: %+v", p)
	}
}
