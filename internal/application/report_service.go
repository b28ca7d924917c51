package application

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/example/feedback-kiosk/internal/persistence"
)

// EventReader captures the read operations the reporting flows perform.
type EventReader interface {
	ListEvents(ctx context.Context, filter persistence.EventFilter) ([]persistence.FeedbackEvent, error)
	CountEvents(ctx context.Context, filter persistence.EventFilter) (int64, error)
	CountEventsByLevel(ctx context.Context, filter persistence.EventFilter) (map[string]int64, error)
	DistinctDates(ctx context.Context) ([]string, error)
}

const (
	// DefaultSeriesDays is the length of the trailing daily series.
	DefaultSeriesDays = 7
	// DefaultPageLimit is the page size used when the operator supplies none.
	DefaultPageLimit = 50
	// MinPageLimit is the smallest accepted page size.
	MinPageLimit = 10
)

// ReportService answers the aggregated questions the admin dashboard asks.
type ReportService struct {
	events EventReader
	now    func() time.Time
	logger *slog.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(events EventReader, now func() time.Time) *ReportService {
	return NewReportServiceWithLogger(events, now, nil)
}

// NewReportServiceWithLogger constructs a ReportService with a specified logger.
func NewReportServiceWithLogger(events EventReader, now func() time.Time, logger *slog.Logger) *ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportService{
		events: events,
		now:    now,
		logger: defaultLogger(logger),
	}
}

func (s *ReportService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReportService", operation, attrs...)
}

// Stats returns per-level counts and percentages. An empty date covers every
// stored event, otherwise only the named day. A malformed date yields empty
// statistics rather than an error.
func (s *ReportService) Stats(ctx context.Context, date string) (GroupedCounts, error) {
	if s == nil || s.events == nil {
		return GroupedCounts{}, fmt.Errorf("report service not configured")
	}

	filter := persistence.EventFilter{}
	if date != "" {
		normalized, ok := NormalizeDate(date)
		if !ok {
			return GroupedCounts{}, nil
		}
		filter.Date = normalized
	}

	counts, err := s.events.CountEventsByLevel(ctx, filter)
	if err != nil {
		s.loggerWith(ctx, "Stats", "date", date).ErrorContext(ctx, "failed to count events", "error", err)
		return GroupedCounts{}, err
	}
	return groupCounts(counts), nil
}

// DailySeries returns per-day totals for the trailing window ending at
// endDate, oldest day first. A malformed or empty endDate anchors the window
// at today, and numDays values below one fall back to the default week.
func (s *ReportService) DailySeries(ctx context.Context, endDate string, numDays int) ([]DayCount, error) {
	if s == nil || s.events == nil {
		return nil, fmt.Errorf("report service not configured")
	}
	if numDays < 1 {
		numDays = DefaultSeriesDays
	}

	end, ok := NormalizeDate(endDate)
	if !ok {
		end = s.now().Format(DateLayout)
	}
	anchor, err := time.Parse(DateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("parse series anchor: %w", err)
	}

	series := make([]DayCount, 0, numDays)
	for offset := numDays - 1; offset >= 0; offset-- {
		day := anchor.AddDate(0, 0, -offset).Format(DateLayout)
		count, err := s.events.CountEvents(ctx, persistence.EventFilter{Date: day})
		if err != nil {
			s.loggerWith(ctx, "DailySeries", "date", day).ErrorContext(ctx, "failed to count events", "error", err)
			return nil, err
		}
		series = append(series, DayCount{Date: day, Count: count})
	}
	return series, nil
}

// Compare returns side-by-side statistics for two days. When either date is
// malformed the comparison is silently skipped and a nil result is returned.
func (s *ReportService) Compare(ctx context.Context, dateA, dateB string) (*Comparison, error) {
	if s == nil || s.events == nil {
		return nil, fmt.Errorf("report service not configured")
	}

	a, okA := NormalizeDate(dateA)
	b, okB := NormalizeDate(dateB)
	if !okA || !okB {
		return nil, nil
	}

	statsA, err := s.Stats(ctx, a)
	if err != nil {
		return nil, err
	}
	statsB, err := s.Stats(ctx, b)
	if err != nil {
		return nil, err
	}
	return &Comparison{DateA: a, DateB: b, StatsA: statsA, StatsB: statsB}, nil
}

// RecordPage returns one newest-first page of stored events. A valid day
// restricts the listing to that date, anything else lists every event. Page
// numbers below one snap to the first page; an absent limit falls back to the
// default and anything smaller than the minimum is clamped up to it.
func (s *ReportService) RecordPage(ctx context.Context, day string, page, limit int64) (RecordPage, error) {
	if s == nil || s.events == nil {
		return RecordPage{}, fmt.Errorf("report service not configured")
	}

	if page < 1 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultPageLimit
	}
	if limit < MinPageLimit {
		limit = MinPageLimit
	}

	filter := persistence.EventFilter{}
	if normalized, ok := NormalizeDate(day); ok {
		filter.Date = normalized
	}

	total, err := s.events.CountEvents(ctx, filter)
	if err != nil {
		s.loggerWith(ctx, "RecordPage", "day", day).ErrorContext(ctx, "failed to count events", "error", err)
		return RecordPage{}, err
	}

	filter.Offset = (page - 1) * limit
	filter.Limit = limit
	models, err := s.events.ListEvents(ctx, filter)
	if err != nil {
		s.loggerWith(ctx, "RecordPage", "day", day).ErrorContext(ctx, "failed to list events", "error", err)
		return RecordPage{}, err
	}

	events := make([]Event, 0, len(models))
	for _, model := range models {
		events = append(events, toEvent(model))
	}
	return RecordPage{
		Day:          filter.Date,
		Events:       events,
		Page:         page,
		Limit:        limit,
		TotalRecords: total,
	}, nil
}

// RecordedDates lists every date with at least one event, newest first.
func (s *ReportService) RecordedDates(ctx context.Context) ([]string, error) {
	if s == nil || s.events == nil {
		return nil, fmt.Errorf("report service not configured")
	}
	dates, err := s.events.DistinctDates(ctx)
	if err != nil {
		s.loggerWith(ctx, "RecordedDates").ErrorContext(ctx, "failed to list dates", "error", err)
		return nil, err
	}
	return dates, nil
}

func groupCounts(counts map[string]int64) GroupedCounts {
	grouped := GroupedCounts{
		VerySatisfied: counts[string(LevelVerySatisfied)],
		Satisfied:     counts[string(LevelSatisfied)],
		Unsatisfied:   counts[string(LevelUnsatisfied)],
	}
	grouped.Total = grouped.VerySatisfied + grouped.Satisfied + grouped.Unsatisfied
	if grouped.Total == 0 {
		return grouped
	}
	grouped.PctVerySatisfied = percentage(grouped.VerySatisfied, grouped.Total)
	grouped.PctSatisfied = percentage(grouped.Satisfied, grouped.Total)
	grouped.PctUnsatisfied = percentage(grouped.Unsatisfied, grouped.Total)
	return grouped
}

func percentage(count, total int64) float64 {
	return math.Round(float64(count)/float64(total)*1000) / 10
}
