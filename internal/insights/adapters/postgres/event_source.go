package postgres

import (
	"context"
	"database/sql"
	"fmt"

	evdomain "clickstream-insights/internal/events/core/domain"
	"clickstream-insights/internal/insights/core/ports"
)

type EventSource struct {
	db DB
}

func NewEventSource(db DB) *EventSource {
	return &EventSource{db: db}
}

func (s *EventSource) ListEvents(ctx context.Context, f ports.EventFilter) ([]evdomain.Event, error) {
	query := `
SELECT
    user_session,
    user_id,
    event_type,
    event_time,
    product_id,
    category_id,
    category_code,
    brand,
    price,
    price_tier,
    main_category
FROM clickstream_events`

	var args []any
	if !f.From.IsZero() || !f.To.IsZero() {
		query += `
WHERE event_time BETWEEN $1 AND $2`
		args = append(args, f.From.UTC(), f.To.UTC())
	}
	query += `
ORDER BY user_session, event_time, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []evdomain.Event
	for rows.Next() {
		var e evdomain.Event
		var userID, categoryID, categoryCode, brand sql.NullString
		if err := rows.Scan(
			&e.SessionKey,
			&userID,
			&e.EventType,
			&e.EventTime,
			&e.ProductID,
			&categoryID,
			&categoryCode,
			&brand,
			&e.Price,
			&e.PriceTier,
			&e.Category,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.UserID = userID.String
		e.CategoryID = categoryID.String
		e.CategoryCode = categoryCode.String
		e.Brand = brand.String
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
