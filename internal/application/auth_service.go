package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/feedback-kiosk/internal/persistence"
)

// DefaultSessionTTL is the session lifetime used when none is configured.
const DefaultSessionTTL = 12 * time.Hour

// SessionStore captures the session operations the authentication flow performs.
type SessionStore interface {
	CreateSession(ctx context.Context, session persistence.Session) (persistence.Session, error)
	GetSession(ctx context.Context, token string) (persistence.Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (persistence.Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// AdminCredential is the single operator account the service accepts.
// PasswordHash holds an argon2id encoded hash, never a plaintext password.
type AdminCredential struct {
	Username     string
	PasswordHash string
}

// AuthService authenticates the operator and manages admin sessions.
type AuthService struct {
	credential     AdminCredential
	sessions       SessionStore
	tokenGenerator func() (string, error)
	idGenerator    func() string
	now            func() time.Time
	ttl            time.Duration
	logger         *slog.Logger
}

// AuthServiceConfig collects the dependencies of an AuthService.
type AuthServiceConfig struct {
	Credential     AdminCredential
	Sessions       SessionStore
	TokenGenerator func() (string, error)
	IDGenerator    func() string
	Now            func() time.Time
	TTL            time.Duration
	Logger         *slog.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}
	return &AuthService{
		credential:     cfg.Credential,
		sessions:       cfg.Sessions,
		tokenGenerator: cfg.TokenGenerator,
		idGenerator:    cfg.IDGenerator,
		now:            cfg.Now,
		ttl:            cfg.TTL,
		logger:         defaultLogger(cfg.Logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Authenticate checks the submitted credentials and, on success, issues a new
// session. Username and password failures are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (Session, error) {
	if s == nil || s.sessions == nil || s.tokenGenerator == nil || s.idGenerator == nil {
		return Session{}, fmt.Errorf("auth service not configured")
	}

	logger := s.loggerWith(ctx, "Authenticate", "username", username)

	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(s.credential.Username)) == 1
	passwordErr := VerifyPassword(s.credential.PasswordHash, password)
	if !usernameMatch || passwordErr != nil {
		if passwordErr != nil && !errors.Is(passwordErr, ErrInvalidCredentials) {
			logger.ErrorContext(ctx, "stored credential unusable", "error", passwordErr)
			return Session{}, passwordErr
		}
		logger.WarnContext(ctx, "login rejected", "error_kind", ErrorKind(ErrInvalidCredentials))
		return Session{}, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.sessions.DeleteExpiredSessions(ctx, now); err != nil {
		logger.WarnContext(ctx, "failed to sweep expired sessions", "error", err)
	}

	token, err := s.tokenGenerator()
	if err != nil {
		logger.ErrorContext(ctx, "failed to generate session token", "error", err)
		return Session{}, fmt.Errorf("generate session token: %w", err)
	}

	stored, err := s.sessions.CreateSession(ctx, persistence.Session{
		ID:        s.idGenerator(),
		Token:     token,
		Subject:   s.credential.Username,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to persist session", "error", err)
		return Session{}, err
	}

	logger.With("session_id", stored.ID).InfoContext(ctx, "operator logged in")
	return Session{
		ID:        stored.ID,
		Token:     stored.Token,
		Subject:   stored.Subject,
		ExpiresAt: stored.ExpiresAt,
	}, nil
}

// ValidateSession resolves a bearer token to the authenticated operator.
// Unknown tokens map to ErrUnauthorized so callers cannot probe for session
// existence; expired and revoked sessions are reported distinctly for logs.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (Principal, error) {
	if s == nil || s.sessions == nil {
		return Principal{}, fmt.Errorf("auth service not configured")
	}
	if token == "" {
		return Principal{}, ErrUnauthorized
	}

	stored, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		s.loggerWith(ctx, "ValidateSession").ErrorContext(ctx, "failed to load session", "error", err)
		return Principal{}, err
	}

	if stored.RevokedAt != nil {
		return Principal{}, ErrSessionRevoked
	}
	if !stored.ExpiresAt.After(s.now()) {
		return Principal{}, ErrSessionExpired
	}
	return Principal{Subject: stored.Subject}, nil
}

// RevokeSession invalidates the session behind the token. Revoking an unknown
// or already revoked token is not an error; logout must always succeed.
func (s *AuthService) RevokeSession(ctx context.Context, token string) error {
	if s == nil || s.sessions == nil {
		return fmt.Errorf("auth service not configured")
	}
	if token == "" {
		return nil
	}

	logger := s.loggerWith(ctx, "RevokeSession")
	stored, err := s.sessions.RevokeSession(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil
		}
		logger.ErrorContext(ctx, "failed to revoke session", "error", err)
		return err
	}
	logger.With("session_id", stored.ID).InfoContext(ctx, "operator logged out")
	return nil
}
