package application

import (
	"context"
	"sort"
	"time"

	"github.com/example/feedback-kiosk/internal/persistence"
)

type eventStoreStub struct {
	events    []persistence.FeedbackEvent
	nextID    int64
	appendErr error
	listErr   error
	countErr  error
}

func (s *eventStoreStub) AppendEvent(_ context.Context, event persistence.FeedbackEvent) (persistence.FeedbackEvent, error) {
	if s.appendErr != nil {
		return persistence.FeedbackEvent{}, s.appendErr
	}
	s.nextID++
	event.ID = s.nextID
	s.events = append(s.events, event)
	return event, nil
}

func (s *eventStoreStub) matches(event persistence.FeedbackEvent, filter persistence.EventFilter) bool {
	if filter.Date != "" {
		return event.Date == filter.Date
	}
	if filter.StartDate != "" && event.Date < filter.StartDate {
		return false
	}
	if filter.EndDate != "" && event.Date > filter.EndDate {
		return false
	}
	return true
}

func (s *eventStoreStub) ListEvents(_ context.Context, filter persistence.EventFilter) ([]persistence.FeedbackEvent, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var matched []persistence.FeedbackEvent
	for _, event := range s.events {
		if s.matches(event, filter) {
			matched = append(matched, event)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Date != matched[j].Date {
			return matched[i].Date > matched[j].Date
		}
		if matched[i].Time != matched[j].Time {
			return matched[i].Time > matched[j].Time
		}
		return matched[i].ID > matched[j].ID
	})
	if filter.Offset > 0 {
		if filter.Offset >= int64(len(matched)) {
			return nil, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < int64(len(matched)) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (s *eventStoreStub) CountEvents(_ context.Context, filter persistence.EventFilter) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	var total int64
	for _, event := range s.events {
		if s.matches(event, filter) {
			total++
		}
	}
	return total, nil
}

func (s *eventStoreStub) CountEventsByLevel(_ context.Context, filter persistence.EventFilter) (map[string]int64, error) {
	if s.countErr != nil {
		return nil, s.countErr
	}
	counts := make(map[string]int64)
	for _, event := range s.events {
		if s.matches(event, filter) {
			counts[event.Level]++
		}
	}
	return counts, nil
}

func (s *eventStoreStub) DistinctDates(context.Context) ([]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	seen := make(map[string]struct{})
	var dates []string
	for _, event := range s.events {
		if _, ok := seen[event.Date]; ok {
			continue
		}
		seen[event.Date] = struct{}{}
		dates = append(dates, event.Date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

type sessionStoreStub struct {
	sessions    map[string]persistence.Session
	createErr   error
	deleteCalls []time.Time
}

func newSessionStoreStub() *sessionStoreStub {
	return &sessionStoreStub{sessions: make(map[string]persistence.Session)}
}

func (s *sessionStoreStub) CreateSession(_ context.Context, session persistence.Session) (persistence.Session, error) {
	if s.createErr != nil {
		return persistence.Session{}, s.createErr
	}
	if _, ok := s.sessions[session.Token]; ok {
		return persistence.Session{}, persistence.ErrDuplicate
	}
	s.sessions[session.Token] = session
	return session, nil
}

func (s *sessionStoreStub) GetSession(_ context.Context, token string) (persistence.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}
	return session, nil
}

func (s *sessionStoreStub) RevokeSession(_ context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}
	session.RevokedAt = &revokedAt
	s.sessions[token] = session
	return session, nil
}

func (s *sessionStoreStub) DeleteExpiredSessions(_ context.Context, reference time.Time) error {
	s.deleteCalls = append(s.deleteCalls, reference)
	for token, session := range s.sessions {
		if !session.ExpiresAt.After(reference) {
			delete(s.sessions, token)
		}
	}
	return nil
}

func seedStubEvent(store *eventStoreStub, level Level, date, clock string) persistence.FeedbackEvent {
	parsed, err := time.Parse(DateLayout, date)
	weekday := ""
	if err == nil {
		weekday = parsed.Weekday().String()
	}
	event, _ := store.AppendEvent(context.Background(), persistence.FeedbackEvent{
		Level:     string(level),
		Date:      date,
		Time:      clock,
		Weekday:   weekday,
		CreatedAt: time.Now().UTC(),
	})
	return event
}
