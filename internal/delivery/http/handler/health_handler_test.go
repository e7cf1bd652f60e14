package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("down") })

	cases := []struct {
		name      string
		db, cache Pinger
		want      int
		wantCache string
	}{
		{"all up", ok, ok, fiber.StatusOK, "ok"},
		{"no cache", ok, nil, fiber.StatusOK, "disabled"},
		{"cache down", ok, down, fiber.StatusOK, "down"},
		{"db down", down, ok, fiber.StatusServiceUnavailable, "ok"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp("", NewHealthHandler(tc.db, tc.cache).RegisterRoutes)
			status, env := doJSON(t, app, http.MethodGet, "/health", nil, nil)
			if status != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, status)
			}
			var st healthStatus
			decodeData(t, env, &st)
			if st.Cache != tc.wantCache {
				t.Fatalf("expected cache %q, got %q", tc.wantCache, st.Cache)
			}
		})
	}
}
