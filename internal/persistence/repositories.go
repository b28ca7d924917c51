package persistence

import "context"
import "time"

// EventRepository stores the append-only feedback event log. There are no
// update or delete operations by design.
type EventRepository interface {
	AppendEvent(ctx context.Context, event FeedbackEvent) (FeedbackEvent, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]FeedbackEvent, error)
	CountEvents(ctx context.Context, filter EventFilter) (int64, error)
	CountEventsByLevel(ctx context.Context, filter EventFilter) (map[string]int64, error)
	DistinctDates(ctx context.Context) ([]string, error)
}

// SessionRepository stores admin authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}
