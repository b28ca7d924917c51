package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/feedback-kiosk/internal/application"
	"github.com/example/feedback-kiosk/internal/persistence"
)

var (
	eventCounter   uint64
	sessionCounter uint64
)

var referenceTime = time.Date(2026, time.August, 31, 10, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// EventFixture is a deterministic feedback event that can be materialised for
// application or persistence tests.
type EventFixture struct {
	Level     string
	Date      string
	Time      string
	Weekday   string
	CreatedAt time.Time
}

// EventOption configures the generated event fixture.
type EventOption func(*EventFixture)

// NewEventFixture returns a deterministic event fixture with optional
// overrides. Consecutive fixtures advance by one minute so ordering tests get
// distinct timestamps for free.
func NewEventFixture(opts ...EventOption) EventFixture {
	idx := atomic.AddUint64(&eventCounter, 1)
	at := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := EventFixture{
		Level:     string(application.LevelSatisfied),
		Date:      at.Format(application.DateLayout),
		Time:      at.Format(application.TimeLayout),
		Weekday:   at.Weekday().String(),
		CreatedAt: at,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithLevel overrides the satisfaction level.
func WithLevel(level application.Level) EventOption {
	return func(fixture *EventFixture) {
		fixture.Level = string(level)
	}
}

// WithDay pins the event to a calendar date, recomputing the weekday.
func WithDay(date string) EventOption {
	return func(fixture *EventFixture) {
		fixture.Date = date
		if parsed, err := time.Parse(application.DateLayout, date); err == nil {
			fixture.Weekday = parsed.Weekday().String()
		}
	}
}

// WithClockTime overrides the time-of-day column.
func WithClockTime(clock string) EventOption {
	return func(fixture *EventFixture) {
		fixture.Time = clock
	}
}

// Model converts the fixture into the persistence representation.
func (f EventFixture) Model() persistence.FeedbackEvent {
	return persistence.FeedbackEvent{
		Level:     f.Level,
		Date:      f.Date,
		Time:      f.Time,
		Weekday:   f.Weekday,
		CreatedAt: f.CreatedAt,
	}
}

// SessionFixture is a deterministic admin session record.
type SessionFixture struct {
	ID        string
	Token     string
	Subject   string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a deterministic session fixture with optional
// overrides.
func NewSessionFixture(opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	fixture := SessionFixture{
		ID:        fmt.Sprintf("session-%03d", idx),
		Token:     fmt.Sprintf("token-%03d", idx),
		Subject:   "admin",
		ExpiresAt: referenceTime.Add(12 * time.Hour),
		CreatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSubject overrides the session subject.
func WithSubject(subject string) SessionOption {
	return func(fixture *SessionFixture) {
		fixture.Subject = subject
	}
}

// WithExpiry overrides the session expiry.
func WithExpiry(expiresAt time.Time) SessionOption {
	return func(fixture *SessionFixture) {
		fixture.ExpiresAt = expiresAt
	}
}

// Model converts the fixture into the persistence representation.
func (f SessionFixture) Model() persistence.Session {
	return persistence.Session{
		ID:        f.ID,
		Token:     f.Token,
		Subject:   f.Subject,
		ExpiresAt: f.ExpiresAt,
		CreatedAt: f.CreatedAt,
	}
}
