package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testAuthService(t *testing.T, sessions *sessionStoreStub, now time.Time) *AuthService {
	t.Helper()

	hash, err := CreatePasswordHash("correct horse")
	if err != nil {
		t.Fatalf("CreatePasswordHash failed: %v", err)
	}

	tokenSeq := 0
	return NewAuthService(AuthServiceConfig{
		Credential: AdminCredential{Username: "admin", PasswordHash: hash},
		Sessions:   sessions,
		TokenGenerator: func() (string, error) {
			tokenSeq++
			return "token-" + string(rune('0'+tokenSeq)), nil
		},
		IDGenerator: func() string { return "session-id" },
		Now:         func() time.Time { return now },
		TTL:         time.Hour,
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	t.Parallel()

	t.Run("issues a session for valid credentials", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
		sessions := newSessionStoreStub()
		svc := testAuthService(t, sessions, now)

		session, err := svc.Authenticate(context.Background(), "admin", "correct horse")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if session.Token == "" {
			t.Fatal("expected an issued token")
		}
		if session.Subject != "admin" {
			t.Fatalf("expected subject admin, got %s", session.Subject)
		}
		if !session.ExpiresAt.Equal(now.Add(time.Hour)) {
			t.Fatalf("expected expiry one hour out, got %s", session.ExpiresAt)
		}
		if len(sessions.deleteCalls) != 1 || !sessions.deleteCalls[0].Equal(now) {
			t.Fatalf("expected expired-session sweep at now, got %v", sessions.deleteCalls)
		}
		if _, err := sessions.GetSession(context.Background(), session.Token); err != nil {
			t.Fatalf("expected session to be persisted: %v", err)
		}
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		t.Parallel()

		svc := testAuthService(t, newSessionStoreStub(), time.Now())
		if _, err := svc.Authenticate(context.Background(), "admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("rejects a wrong username with the same error", func(t *testing.T) {
		t.Parallel()

		svc := testAuthService(t, newSessionStoreStub(), time.Now())
		if _, err := svc.Authenticate(context.Background(), "root", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("surfaces a malformed stored hash", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(AuthServiceConfig{
			Credential:     AdminCredential{Username: "admin", PasswordHash: "plaintext"},
			Sessions:       newSessionStoreStub(),
			TokenGenerator: func() (string, error) { return "token", nil },
			IDGenerator:    func() string { return "id" },
		})
		if _, err := svc.Authenticate(context.Background(), "admin", "plaintext"); !errors.Is(err, ErrInvalidPasswordHash) {
			t.Fatalf("expected ErrInvalidPasswordHash, got %v", err)
		}
	})

	t.Run("propagates session store failures", func(t *testing.T) {
		t.Parallel()

		sessions := newSessionStoreStub()
		sessions.createErr = errors.New("locked")
		svc := testAuthService(t, sessions, time.Now())

		if _, err := svc.Authenticate(context.Background(), "admin", "correct horse"); !errors.Is(err, sessions.createErr) {
			t.Fatalf("expected store error, got %v", err)
		}
	})
}

func TestAuthService_ValidateSession(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

	t.Run("accepts a live session", func(t *testing.T) {
		t.Parallel()

		sessions := newSessionStoreStub()
		svc := testAuthService(t, sessions, now)
		session, err := svc.Authenticate(context.Background(), "admin", "correct horse")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}

		principal, err := svc.ValidateSession(context.Background(), session.Token)
		if err != nil {
			t.Fatalf("ValidateSession failed: %v", err)
		}
		if principal.Subject != "admin" {
			t.Fatalf("expected subject admin, got %s", principal.Subject)
		}
	})

	t.Run("rejects empty and unknown tokens as unauthorized", func(t *testing.T) {
		t.Parallel()

		svc := testAuthService(t, newSessionStoreStub(), now)
		for _, token := range []string{"", "no-such-token"} {
			if _, err := svc.ValidateSession(context.Background(), token); !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized for %q, got %v", token, err)
			}
		}
	})

	t.Run("rejects an expired session", func(t *testing.T) {
		t.Parallel()

		sessions := newSessionStoreStub()
		svc := testAuthService(t, sessions, now)
		session, err := svc.Authenticate(context.Background(), "admin", "correct horse")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}

		later := testAuthService(t, sessions, now.Add(2*time.Hour))
		if _, err := later.ValidateSession(context.Background(), session.Token); !errors.Is(err, ErrSessionExpired) {
			t.Fatalf("expected ErrSessionExpired, got %v", err)
		}
	})

	t.Run("rejects a revoked session", func(t *testing.T) {
		t.Parallel()

		sessions := newSessionStoreStub()
		svc := testAuthService(t, sessions, now)
		session, err := svc.Authenticate(context.Background(), "admin", "correct horse")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if err := svc.RevokeSession(context.Background(), session.Token); err != nil {
			t.Fatalf("RevokeSession failed: %v", err)
		}

		if _, err := svc.ValidateSession(context.Background(), session.Token); !errors.Is(err, ErrSessionRevoked) {
			t.Fatalf("expected ErrSessionRevoked, got %v", err)
		}
	})
}

func TestAuthService_RevokeSession(t *testing.T) {
	t.Parallel()

	t.Run("tolerates unknown and empty tokens", func(t *testing.T) {
		t.Parallel()

		svc := testAuthService(t, newSessionStoreStub(), time.Now())
		if err := svc.RevokeSession(context.Background(), "no-such-token"); err != nil {
			t.Fatalf("expected nil for unknown token, got %v", err)
		}
		if err := svc.RevokeSession(context.Background(), ""); err != nil {
			t.Fatalf("expected nil for empty token, got %v", err)
		}
	})
}
