package handler

import (
	"errors"
	"net/http"
	"testing"

	"hydroguide/internal/delivery/http/dto"
	"hydroguide/internal/domain/hydration"
	"hydroguide/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func TestIntakeHandler_LogDefaultsToToday(t *testing.T) {
	led := &fakeLedger{total: 8}
	app := newTestApp("/intake", NewIntakeHandler(led, &fakeAdherence{}).RegisterRoutes)

	status, env := doJSON(t, app, http.MethodPost, "/intake", dto.LogIntakeRequest{AmountOz: 16}, nil)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d %+v", status, env)
	}
	if len(led.logged) != 1 || led.logged[0].Day != testToday || led.logged[0].UserID != testUser {
		t.Fatalf("unexpected ledger call: %+v", led.logged)
	}

	var got dto.IntakeMutationResponse
	decodeData(t, env, &got)
	if got.Entry == nil || got.Entry.AmountOz != 16 {
		t.Fatalf("unexpected entry: %+v", got.Entry)
	}
	if got.TotalOz == nil || *got.TotalOz != 24 {
		t.Fatalf("expected authoritative total 24, got %v", got.TotalOz)
	}
}

func TestIntakeHandler_LogRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		led  *fakeLedger
		body dto.LogIntakeRequest
	}{
		{"bad amount", &fakeLedger{logErr: usecase.ErrInvalidAmount}, dto.LogIntakeRequest{AmountOz: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp("/intake", NewIntakeHandler(tc.led, &fakeAdherence{}).RegisterRoutes)
			status, _ := doJSON(t, app, http.MethodPost, "/intake", tc.body, nil)
			if status != fiber.StatusBadRequest {
				t.Fatalf("expected 400, got %d", status)
			}
			if len(tc.led.logged) != 0 {
				t.Fatalf("nothing should be logged")
			}
		})
	}
}

func TestIntakeHandler_LogIgnoresBackdatedBody(t *testing.T) {
	led := &fakeLedger{}
	app := newTestApp("/intake", NewIntakeHandler(led, &fakeAdherence{}).RegisterRoutes)

	body := map[string]any{"amount_oz": 1, "date": "2026-10-01"}
	status, env := doJSON(t, app, http.MethodPost, "/intake", body, nil)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d %+v", status, env)
	}
	if len(led.logged) != 1 || led.logged[0].Day != testToday {
		t.Fatalf("expected entry dated today, got %+v", led.logged)
	}

	var got dto.IntakeMutationResponse
	decodeData(t, env, &got)
	if got.Entry == nil || got.Entry.Date != testToday.String() {
		t.Fatalf("unexpected entry: %+v", got.Entry)
	}
}

func TestIntakeHandler_LogStorageDown(t *testing.T) {
	led := &fakeLedger{logErr: errors.Join(usecase.ErrStorageUnavailable, errors.New("conn refused"))}
	app := newTestApp("/intake", NewIntakeHandler(led, &fakeAdherence{}).RegisterRoutes)

	status, env := doJSON(t, app, http.MethodPost, "/intake", dto.LogIntakeRequest{AmountOz: 8}, nil)
	if status != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", status)
	}
	if env.Message != "Storage unavailable, please retry" {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestIntakeHandler_UndoNothing(t *testing.T) {
	led := &fakeLedger{undoErr: usecase.ErrNothingToUndo}
	app := newTestApp("/intake", NewIntakeHandler(led, &fakeAdherence{}).RegisterRoutes)

	status, env := doJSON(t, app, http.MethodPost, "/intake/undo", nil, nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var got dto.IntakeMutationResponse
	decodeData(t, env, &got)
	if got.Undone == nil || *got.Undone || got.Entry != nil {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestIntakeHandler_UndoRemovesLatest(t *testing.T) {
	led := &fakeLedger{total: 24, undone: hydration.IntakeEntry{Date: testToday, AmountOz: 8}}
	app := newTestApp("/intake", NewIntakeHandler(led, &fakeAdherence{}).RegisterRoutes)

	status, env := doJSON(t, app, http.MethodPost, "/intake/undo", nil, nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var got dto.IntakeMutationResponse
	decodeData(t, env, &got)
	if got.Undone == nil || !*got.Undone || got.Entry == nil || got.Entry.AmountOz != 8 {
		t.Fatalf("unexpected body: %+v", got)
	}
	if got.TotalOz == nil || *got.TotalOz != 16 {
		t.Fatalf("expected total 16, got %v", got.TotalOz)
	}
}

func TestIntakeHandler_UndoOnlyTargetsToday(t *testing.T) {
	led := &fakeLedger{total: 24, undone: hydration.IntakeEntry{Date: testToday, AmountOz: 8}}
	app := newTestApp("/intake", NewIntakeHandler(led, &fakeAdherence{}).RegisterRoutes)

	if status, _ := doJSON(t, app, http.MethodPost, "/intake/undo?date=2026-10-01", nil, nil); status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(led.undoDays) != 1 || led.undoDays[0] != testToday {
		t.Fatalf("expected undo against today, got %v", led.undoDays)
	}
}

func TestIntakeHandler_UndoLockedDayLeaksNothing(t *testing.T) {
	led := &fakeLedger{total: 48, undoErr: usecase.ErrDayLocked}
	app := newTestApp("/intake", NewIntakeHandler(led, &fakeAdherence{}).RegisterRoutes)

	status, env := doJSON(t, app, http.MethodPost, "/intake/undo", nil, nil)
	if status != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", status)
	}
	var got map[string]any
	decodeData(t, env, &got)
	if len(got) != 1 || got["locked"] != true {
		t.Fatalf("expected only the locked flag, got %v", got)
	}
}

func TestIntakeHandler_RangeLocksOldDaysForFreeUsers(t *testing.T) {
	adh := &fakeAdherence{}
	app := newTestApp("/intake", NewIntakeHandler(&fakeLedger{}, adh).RegisterRoutes)

	status, env := doJSON(t, app, http.MethodGet, "/intake/range?start=2026-10-06&end=2026-10-09", nil, nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var got dto.RangeResponse
	decodeData(t, env, &got)
	if len(got.Days) != 4 {
		t.Fatalf("expected 4 days, got %d", len(got.Days))
	}
	// VisibleFrom(2026-10-15) is 2026-10-08.
	for _, d := range got.Days {
		wantLocked := d.Date < "2026-10-08"
		if d.Locked != wantLocked {
			t.Fatalf("%s: locked=%v", d.Date, d.Locked)
		}
		if d.Locked && (d.TotalOz != nil || d.Status != "") {
			t.Fatalf("%s: locked day leaked figures: %+v", d.Date, d)
		}
	}
}

func TestIntakeHandler_RangeDefaults(t *testing.T) {
	adh := &fakeAdherence{}
	app := newTestApp("/intake", NewIntakeHandler(&fakeLedger{}, adh).RegisterRoutes)

	if status, _ := doJSON(t, app, http.MethodGet, "/intake/range", nil, nil); status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if adh.gotEnd != testToday || adh.gotStart != "2026-10-08" {
		t.Fatalf("unexpected default window %s..%s", adh.gotStart, adh.gotEnd)
	}
}
