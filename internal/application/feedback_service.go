package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/feedback-kiosk/internal/persistence"
)

// EventAppender captures the single write the submission flow performs.
type EventAppender interface {
	AppendEvent(ctx context.Context, event persistence.FeedbackEvent) (persistence.FeedbackEvent, error)
}

// FeedbackService records public satisfaction submissions.
type FeedbackService struct {
	events EventAppender
	now    func() time.Time
	logger *slog.Logger
}

// NewFeedbackService constructs a FeedbackService.
func NewFeedbackService(events EventAppender, now func() time.Time) *FeedbackService {
	return NewFeedbackServiceWithLogger(events, now, nil)
}

// NewFeedbackServiceWithLogger constructs a FeedbackService with a specified logger.
func NewFeedbackServiceWithLogger(events EventAppender, now func() time.Time, logger *slog.Logger) *FeedbackService {
	if now == nil {
		now = time.Now
	}
	return &FeedbackService{
		events: events,
		now:    now,
		logger: defaultLogger(logger),
	}
}

func (s *FeedbackService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "FeedbackService", operation, attrs...)
}

// Submit validates the satisfaction level, derives date, time and weekday
// from the current server time, and appends a new immutable event.
func (s *FeedbackService) Submit(ctx context.Context, rawLevel string) (event Event, err error) {
	if s == nil || s.events == nil {
		err = fmt.Errorf("feedback service not configured")
		return
	}

	logger := s.loggerWith(ctx, "Submit", "level", rawLevel)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "submission rejected", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("event_id", event.ID).InfoContext(ctx, "feedback recorded")
	}()

	level, err := ParseLevel(rawLevel)
	if err != nil {
		return
	}

	now := s.now()
	stored, err := s.events.AppendEvent(ctx, persistence.FeedbackEvent{
		Level:     string(level),
		Date:      now.Format(DateLayout),
		Time:      now.Format(TimeLayout),
		Weekday:   now.Weekday().String(),
		CreatedAt: now.UTC(),
	})
	if err != nil {
		return
	}

	event = toEvent(stored)
	return
}

// Today returns the current calendar date as seen by the service clock.
func (s *FeedbackService) Today() string {
	if s == nil || s.now == nil {
		return time.Now().Format(DateLayout)
	}
	return s.now().Format(DateLayout)
}

func toEvent(model persistence.FeedbackEvent) Event {
	return Event{
		ID:        model.ID,
		Level:     Level(model.Level),
		Date:      model.Date,
		Time:      model.Time,
		Weekday:   model.Weekday,
		CreatedAt: model.CreatedAt,
	}
}
