package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/feedback-kiosk/internal/persistence"
)

// SessionRepository implements persistence.SessionRepository using SQLite.
type SessionRepository struct {
	pool *ConnectionPool
}

// NewSessionRepository creates a SQLite-backed session repository.
func NewSessionRepository(pool *ConnectionPool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// CreateSession stores a newly issued admin session.
func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	if session.ID == "" || strings.TrimSpace(session.Token) == "" || session.Subject == "" {
		return persistence.Session{}, persistence.ErrConstraintViolation
	}

	session.Token = strings.TrimSpace(session.Token)
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	session.CreatedAt = session.CreatedAt.UTC()
	session.ExpiresAt = session.ExpiresAt.UTC()

	query := `
		INSERT INTO sessions (id, token, subject, expires_at, created_at, revoked_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var revokedAt sql.NullString
	if session.RevokedAt != nil {
		revokedAt.String = session.RevokedAt.UTC().Format(time.RFC3339)
		revokedAt.Valid = true
	}

	_, err := r.pool.db.ExecContext(ctx, query,
		session.ID,
		session.Token,
		session.Subject,
		session.ExpiresAt.Format(time.RFC3339),
		session.CreatedAt.Format(time.RFC3339),
		revokedAt,
	)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}

	return session, nil
}

// GetSession retrieves a session by its token value.
func (r *SessionRepository) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	normalized := strings.TrimSpace(token)
	if normalized == "" {
		return persistence.Session{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, token, subject, expires_at, created_at, revoked_at
		FROM sessions
		WHERE token = ?
	`

	var session persistence.Session
	var expiresAtStr, createdAtStr string
	var revokedAt sql.NullString

	err := r.pool.db.QueryRowContext(ctx, query, normalized).Scan(
		&session.ID,
		&session.Token,
		&session.Subject,
		&expiresAtStr,
		&createdAtStr,
		&revokedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Session{}, persistence.ErrNotFound
		}
		return persistence.Session{}, mapError(err)
	}

	if session.ExpiresAt, err = time.Parse(time.RFC3339, expiresAtStr); err != nil {
		return persistence.Session{}, fmt.Errorf("sqlite: parse expires_at: %w", err)
	}
	if session.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Session{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if revokedAt.Valid {
		parsed, err := time.Parse(time.RFC3339, revokedAt.String)
		if err != nil {
			return persistence.Session{}, fmt.Errorf("sqlite: parse revoked_at: %w", err)
		}
		session.RevokedAt = &parsed
	}

	return session, nil
}

// RevokeSession marks the session identified by token as revoked.
func (r *SessionRepository) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	normalized := strings.TrimSpace(token)
	if normalized == "" {
		return persistence.Session{}, persistence.ErrNotFound
	}

	revokedAtUTC := revokedAt.UTC()

	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE sessions SET revoked_at = ? WHERE token = ?
	`, revokedAtUTC.Format(time.RFC3339), normalized)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.Session{}, fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.Session{}, persistence.ErrNotFound
	}

	return r.GetSession(ctx, normalized)
}

// DeleteExpiredSessions removes sessions that expired on or before reference.
func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	_, err := r.pool.db.ExecContext(ctx, `
		DELETE FROM sessions WHERE expires_at <= ?
	`, reference.UTC().Format(time.RFC3339))
	if err != nil {
		return mapError(err)
	}
	return nil
}
