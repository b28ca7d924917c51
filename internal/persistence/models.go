package persistence

import "time"

// FeedbackEvent is a single satisfaction rating captured from a visitor.
// Events are append-only: once stored they are never updated or deleted.
type FeedbackEvent struct {
	ID        int64
	Level     string
	Date      string // YYYY-MM-DD
	Time      string // HH:MM:SS
	Weekday   string // English weekday name, derived from Date
	CreatedAt time.Time
}

// EventFilter narrows event queries. Date takes precedence over the range
// bounds when set. A zero Limit means no limit.
type EventFilter struct {
	Date      string
	StartDate string
	EndDate   string
	Offset    int64
	Limit     int64
}

// Session represents an admin authentication session persisted server-side.
type Session struct {
	ID        string
	Token     string
	Subject   string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}
