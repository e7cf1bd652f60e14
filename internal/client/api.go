// Package client is a typed Go client for the HydroGuide HTTP API plus the
// local state helpers a UI needs on top of it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"hydroguide/internal/delivery/http/dto"
	"hydroguide/internal/delivery/http/middleware"
	"hydroguide/internal/domain/hydration"
)

var ErrNotAuthenticated = errors.New("client: not authenticated")

// APIError is a non-2xx response. Message and Data come from the response
// envelope.
type APIError struct {
	Status  int
	Message string
	Data    json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d message=%s", e.Status, e.Message)
}

// Retryable reports whether the server asked the caller to try again.
func (e *APIError) Retryable() bool {
	return e.Status == http.StatusBadGateway || e.Status == http.StatusServiceUnavailable || e.Status == http.StatusGatewayTimeout
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type API struct {
	baseURL  string
	http     *http.Client
	timezone string
	logger   *log.Logger

	mu    sync.RWMutex
	token string
}

type Option func(*API)

func WithHTTPClient(hc *http.Client) Option {
	return func(a *API) { a.http = hc }
}

// WithTimezone sends an IANA zone name so "today" matches the user's clock.
func WithTimezone(name string) Option {
	return func(a *API) { a.timezone = strings.TrimSpace(name) }
}

func WithToken(token string) Option {
	return func(a *API) { a.token = strings.TrimSpace(token) }
}

func WithLogger(logger *log.Logger) Option {
	return func(a *API) { a.logger = logger }
}

func New(baseURL string, opts ...Option) *API {
	a := &API{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *API) SetToken(token string) {
	a.mu.Lock()
	a.token = strings.TrimSpace(token)
	a.mu.Unlock()
}

func (a *API) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

func (a *API) Register(ctx context.Context, email, password string) (dto.TokenResponse, error) {
	return a.authenticate(ctx, "/api/v1/auth/register", email, password)
}

// Login stores the access token for subsequent calls.
func (a *API) Login(ctx context.Context, email, password string) (dto.TokenResponse, error) {
	return a.authenticate(ctx, "/api/v1/auth/login", email, password)
}

func (a *API) authenticate(ctx context.Context, path, email, password string) (dto.TokenResponse, error) {
	var out dto.TokenResponse
	if err := a.do(ctx, http.MethodPost, path, nil, dto.CredentialsRequest{Email: email, Password: password}, &out, false); err != nil {
		return dto.TokenResponse{}, err
	}
	a.SetToken(out.AccessToken)
	return out, nil
}

func (a *API) Profile(ctx context.Context) (dto.ProfileResponse, error) {
	var out dto.ProfileResponse
	err := a.do(ctx, http.MethodGet, "/api/v1/profile", nil, nil, &out, true)
	return out, err
}

func (a *API) SaveProfile(ctx context.Context, req dto.ProfileRequest) (dto.ProfileResponse, error) {
	var out dto.ProfileResponse
	err := a.do(ctx, http.MethodPut, "/api/v1/profile", nil, req, &out, true)
	return out, err
}

func (a *API) LogIntake(ctx context.Context, amountOz float64) (dto.IntakeMutationResponse, error) {
	var out dto.IntakeMutationResponse
	err := a.do(ctx, http.MethodPost, "/api/v1/intake", nil, dto.LogIntakeRequest{AmountOz: amountOz}, &out, true)
	return out, err
}

// Undo removes today's latest entry. A day with nothing to undo is not an
// error; Undone is false.
func (a *API) Undo(ctx context.Context) (dto.IntakeMutationResponse, error) {
	var out dto.IntakeMutationResponse
	err := a.do(ctx, http.MethodPost, "/api/v1/intake/undo", nil, nil, &out, true)
	return out, err
}

func (a *API) Today(ctx context.Context) (dto.DayStatusResponse, error) {
	var out dto.DayStatusResponse
	err := a.do(ctx, http.MethodGet, "/api/v1/intake/today", nil, nil, &out, true)
	return out, err
}

func (a *API) Day(ctx context.Context, day hydration.Day) (dto.DayStatusResponse, error) {
	var out dto.DayStatusResponse
	err := a.do(ctx, http.MethodGet, "/api/v1/history/day", url.Values{"date": {day.String()}}, nil, &out, true)
	return out, err
}

// Month fetches the calendar for month; the zero Month means the current one.
func (a *API) Month(ctx context.Context, month hydration.Month) (dto.MonthResponse, error) {
	var q url.Values
	if month.Year != 0 {
		q = url.Values{"month": {month.String()}}
	}
	var out dto.MonthResponse
	err := a.do(ctx, http.MethodGet, "/api/v1/history/month", q, nil, &out, true)
	return out, err
}

func (a *API) Recommendations(ctx context.Context) ([]hydration.Recommendation, error) {
	var out dto.RecommendationsResponse
	if err := a.do(ctx, http.MethodGet, "/api/v1/recommendations", nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out.Recommendations, nil
}

func (a *API) do(ctx context.Context, method, path string, q url.Values, body any, out any, auth bool) error {
	token := a.Token()
	if auth && token == "" {
		return ErrNotAuthenticated
	}

	u := a.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if a.timezone != "" {
		req.Header.Set(middleware.HeaderTimezone, a.timezone)
	}

	start := time.Now()
	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if a.logger != nil {
		a.logger.Printf("[Client] %s %s status=%d latency=%s", method, path, resp.StatusCode, time.Since(start))
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			if resp.StatusCode >= 300 {
				return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
			}
			return fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: env.Message, Data: env.Data}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
