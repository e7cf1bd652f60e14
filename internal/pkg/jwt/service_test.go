package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestService() *HMACService {
	return NewHMACService("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
}

func TestHMACService_AccessRoundTrip(t *testing.T) {
	s := newTestService()
	id := uuid.New()

	tok, err := s.GenerateAccessToken(id, "a@example.com")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	c, err := s.ValidateAccessToken(tok)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.UserID != id || c.Email != "a@example.com" || c.TokenType != TokenTypeAccess {
		t.Fatalf("unexpected claims: %+v", c)
	}
}

func TestHMACService_TokenKindsAreNotInterchangeable(t *testing.T) {
	s := newTestService()
	id := uuid.New()

	refresh, _ := s.GenerateRefreshToken(id)
	if _, err := s.ValidateAccessToken(refresh); err == nil {
		t.Fatalf("refresh token accepted as access token")
	}

	access, _ := s.GenerateAccessToken(id, "")
	if _, err := s.ValidateRefreshToken(access); err == nil {
		t.Fatalf("access token accepted as refresh token")
	}
}

func TestHMACService_Expired(t *testing.T) {
	s := newTestService()
	issued := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }

	tok, err := s.GenerateAccessToken(uuid.New(), "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	s.now = func() time.Time { return issued.Add(time.Hour) }
	if _, err := s.ValidateAccessToken(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestHMACService_Tampered(t *testing.T) {
	s := newTestService()
	tok, _ := s.GenerateAccessToken(uuid.New(), "")

	other := NewHMACService("other-secret", "refresh-secret", time.Minute, time.Hour)
	if _, err := other.ValidateAccessToken(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := s.ValidateAccessToken(tok + "x"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
