package application

import (
	"time"
)

// Level is one of the three fixed satisfaction ratings a visitor can submit.
type Level string

const (
	LevelVerySatisfied Level = "very_satisfied"
	LevelSatisfied     Level = "satisfied"
	LevelUnsatisfied   Level = "unsatisfied"
)

// Levels lists every accepted satisfaction level in display order.
var Levels = []Level{LevelVerySatisfied, LevelSatisfied, LevelUnsatisfied}

// ParseLevel validates a raw submission value against the fixed enum.
func ParseLevel(value string) (Level, error) {
	switch Level(value) {
	case LevelVerySatisfied, LevelSatisfied, LevelUnsatisfied:
		return Level(value), nil
	}
	return "", ErrInvalidLevel
}

// DateLayout is the wire and storage layout for calendar dates.
const DateLayout = "2006-01-02"

// TimeLayout is the wire and storage layout for times of day.
const TimeLayout = "15:04:05"

// NormalizeDate parses a caller-supplied date and reports whether it was a
// valid YYYY-MM-DD value. Malformed dates are treated as absent, never as an
// error surfaced to the visitor or operator.
func NormalizeDate(value string) (string, bool) {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return "", false
	}
	return parsed.Format(DateLayout), true
}

// Event is a stored feedback event exposed to transports.
type Event struct {
	ID        int64
	Level     Level
	Date      string
	Time      string
	Weekday   string
	CreatedAt time.Time
}

// GroupedCounts carries per-level tallies and derived percentages for one
// filter. Percentages are rounded to one decimal place and are all zero when
// Total is zero.
type GroupedCounts struct {
	VerySatisfied    int64   `json:"very_satisfied"`
	Satisfied        int64   `json:"satisfied"`
	Unsatisfied      int64   `json:"unsatisfied"`
	Total            int64   `json:"total"`
	PctVerySatisfied float64 `json:"pct_very_satisfied"`
	PctSatisfied     float64 `json:"pct_satisfied"`
	PctUnsatisfied   float64 `json:"pct_unsatisfied"`
}

// DayCount pairs a calendar date with its event count.
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Comparison holds side-by-side grouped counts for two days.
type Comparison struct {
	DateA  string        `json:"date_a"`
	DateB  string        `json:"date_b"`
	StatsA GroupedCounts `json:"stats_a"`
	StatsB GroupedCounts `json:"stats_b"`
}

// RecordPage is one page of the newest-first record listing for a day.
type RecordPage struct {
	Day          string
	Events       []Event
	Page         int64
	Limit        int64
	TotalRecords int64
}

// Principal identifies the authenticated operator on a request.
type Principal struct {
	Subject string
}

// Session is an issued admin session.
type Session struct {
	ID        string
	Token     string
	Subject   string
	ExpiresAt time.Time
}
