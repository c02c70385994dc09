package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	evdomain "clickstream-insights/internal/events/core/domain"
	"clickstream-insights/internal/insights/core/ports"
)

const DefaultTable = "clickstream_events"

var ErrInvalidTable = errors.New("invalid clickhouse table name")

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

type EventSource struct {
	q     Querier
	table string
}

// NewEventSource reads from table, DefaultTable when empty. The table name is
// interpolated into SQL, so it must be a plain (optionally db-qualified)
// identifier.
func NewEventSource(q Querier, table string) (*EventSource, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	return &EventSource{q: q, table: table}, nil
}

func (s *EventSource) ListEvents(ctx context.Context, f ports.EventFilter) ([]evdomain.Event, error) {
	query := `
SELECT
    user_session,
    ifNull(user_id, ''),
    event_type,
    event_time,
    product_id,
    ifNull(category_id, ''),
    ifNull(category_code, ''),
    ifNull(brand, ''),
    price,
    price_tier,
    main_category
FROM ` + s.table

	var args []any
	if !f.From.IsZero() || !f.To.IsZero() {
		query += `
WHERE event_time BETWEEN ? AND ?`
		args = append(args, f.From.UTC(), f.To.UTC())
	}
	query += `
ORDER BY user_session, event_time`

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []evdomain.Event
	for rows.Next() {
		var e evdomain.Event
		if err := rows.Scan(
			&e.SessionKey,
			&e.UserID,
			&e.EventType,
			&e.EventTime,
			&e.ProductID,
			&e.CategoryID,
			&e.CategoryCode,
			&e.Brand,
			&e.Price,
			&e.PriceTier,
			&e.Category,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
