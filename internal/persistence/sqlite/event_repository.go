package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/feedback-kiosk/internal/persistence"
)

// EventRepository implements persistence.EventRepository using SQLite.
// The feedback log is append-only: this type deliberately exposes no update
// or delete operations.
type EventRepository struct {
	pool *ConnectionPool
}

// NewEventRepository creates a SQLite-backed event repository.
func NewEventRepository(pool *ConnectionPool) *EventRepository {
	return &EventRepository{pool: pool}
}

// AppendEvent inserts a new feedback event and returns it with the assigned
// id. The insert is a single transactional statement, so concurrent appends
// never lose or duplicate records.
func (r *EventRepository) AppendEvent(ctx context.Context, event persistence.FeedbackEvent) (persistence.FeedbackEvent, error) {
	if event.Level == "" || event.Date == "" || event.Time == "" || event.Weekday == "" {
		return persistence.FeedbackEvent{}, persistence.ErrConstraintViolation
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	event.CreatedAt = event.CreatedAt.UTC()

	query := `
		INSERT INTO feedback_events (level, date, time, weekday, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.pool.db.ExecContext(ctx, query,
		event.Level,
		event.Date,
		event.Time,
		event.Weekday,
		event.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return persistence.FeedbackEvent{}, mapError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return persistence.FeedbackEvent{}, fmt.Errorf("sqlite: last insert id: %w", err)
	}

	event.ID = id
	return event, nil
}

// ListEvents returns events matching the filter ordered newest-first
// (date desc, time desc, id desc).
func (r *EventRepository) ListEvents(ctx context.Context, filter persistence.EventFilter) ([]persistence.FeedbackEvent, error) {
	where, args := eventFilterClause(filter)

	query := `
		SELECT id, level, date, time, weekday, created_at
		FROM feedback_events
	` + where + `
		ORDER BY date DESC, time DESC, id DESC
	`
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	} else if filter.Offset > 0 {
		query += " LIMIT -1 OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var events []persistence.FeedbackEvent
	for rows.Next() {
		var event persistence.FeedbackEvent
		var createdAtStr string
		if err := rows.Scan(&event.ID, &event.Level, &event.Date, &event.Time, &event.Weekday, &createdAtStr); err != nil {
			return nil, fmt.Errorf("sqlite: scan feedback event: %w", err)
		}
		if event.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("sqlite: parse created_at: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return events, nil
}

// CountEvents counts events matching the filter without materializing rows.
func (r *EventRepository) CountEvents(ctx context.Context, filter persistence.EventFilter) (int64, error) {
	where, args := eventFilterClause(filter)

	var count int64
	err := r.pool.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback_events`+where, args...).Scan(&count)
	if err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// CountEventsByLevel returns per-level counts for the filter in a single
// scan. Levels with no events are absent from the map.
func (r *EventRepository) CountEventsByLevel(ctx context.Context, filter persistence.EventFilter) (map[string]int64, error) {
	where, args := eventFilterClause(filter)

	query := `
		SELECT level, COUNT(*)
		FROM feedback_events
	` + where + `
		GROUP BY level
	`

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var level string
		var count int64
		if err := rows.Scan(&level, &count); err != nil {
			return nil, fmt.Errorf("sqlite: scan level count: %w", err)
		}
		counts[level] = count
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return counts, nil
}

// DistinctDates returns every date with at least one event, descending.
func (r *EventRepository) DistinctDates(ctx context.Context) ([]string, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT DISTINCT date FROM feedback_events ORDER BY date DESC
	`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("sqlite: scan date: %w", err)
		}
		dates = append(dates, date)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return dates, nil
}

func eventFilterClause(filter persistence.EventFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.Date != "" {
		conditions = append(conditions, "date = ?")
		args = append(args, filter.Date)
	} else {
		if filter.StartDate != "" {
			conditions = append(conditions, "date >= ?")
			args = append(args, filter.StartDate)
		}
		if filter.EndDate != "" {
			conditions = append(conditions, "date <= ?")
			args = append(args, filter.EndDate)
		}
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
