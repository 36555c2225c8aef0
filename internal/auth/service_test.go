package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()

	return NewService(&JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      ttl,
	})
}

func TestNewSessionRoundTrip(t *testing.T) {
	svc := newTestService(t, time.Hour)

	identity, token, err := svc.NewSession()
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if identity == "" || token == "" {
		t.Fatalf("expected identity and token, got %q %q", identity, token)
	}

	resumed, err := svc.Resume(token)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed != identity {
		t.Fatalf("expected identity %q, got %q", identity, resumed)
	}
}

func TestResume_RejectsGarbage(t *testing.T) {
	svc := newTestService(t, time.Hour)

	if _, err := svc.Resume("not-a-token"); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestResume_RejectsOtherSecret(t *testing.T) {
	svc := newTestService(t, time.Hour)
	other := NewService(&JWTConfig{Secret: []byte("other"), Issuer: "test", Audience: "test", TTL: time.Hour})

	_, token, err := other.NewSession()
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, err := svc.Resume(token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestResume_RejectsExpired(t *testing.T) {
	svc := newTestService(t, -time.Minute)

	_, token, err := svc.NewSession()
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	_, err = svc.Resume(token)
	if !errors.Is(err, ErrInvalidSession) || !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expired session error, got %v", err)
	}
}

func TestResume_RejectsWrongAudience(t *testing.T) {
	svc := newTestService(t, time.Hour)
	other := NewService(&JWTConfig{Secret: []byte("test-secret-change-me"), Issuer: "test", Audience: "elsewhere", TTL: time.Hour})

	_, token, err := other.NewSession()
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, err := svc.Resume(token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestIssue_RejectsEmptyIdentity(t *testing.T) {
	svc := newTestService(t, time.Hour)

	if _, err := svc.Issue(""); err == nil {
		t.Fatalf("expected error for empty identity")
	}
}
