package postgres

import (
	"context"
	"fmt"

	"clickstream-insights/internal/events/core/domain"
	"clickstream-insights/internal/events/core/ports"
)

type EventRepository struct {
	db DB
}

func NewEventRepository(db DB) *EventRepository {
	return &EventRepository{db: db}
}

var _ ports.EventRepositoryPort = (*EventRepository)(nil)

const insertEventSQL = `
INSERT INTO clickstream_events (
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
    main_category,
    dedupe_key
) VALUES (
    $1, $2, $3, $4,
    $5, $6, $7, $8,
    $9, $10, $11, $12
)
ON CONFLICT (dedupe_key) DO NOTHING;
`

func (r *EventRepository) InsertEvent(ctx context.Context, e *domain.Event) (bool, error) {
	res, err := r.db.ExecContext(ctx, insertEventSQL,
		e.SessionKey,
		nullable(e.UserID),
		e.EventType,
		e.EventTime,
		e.ProductID,
		nullable(e.CategoryID),
		nullable(e.CategoryCode),
		nullable(e.Brand),
		e.Price,
		e.PriceTier,
		e.Category,
		e.DedupeKey,
	)
	if err != nil {
		return false, fmt.Errorf("insert event: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	// rows == 0 -> duplicate (ON CONFLICT DO NOTHING)
	return rows > 0, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
