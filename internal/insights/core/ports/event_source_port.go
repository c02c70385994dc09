package ports

import (
	"context"
	"time"

	evdomain "clickstream-insights/internal/events/core/domain"
)

// EventFilter bounds the events read for an analysis. Zero times are
// unbounded.
type EventFilter struct {
	From time.Time
	To   time.Time
}

type EventSourcePort interface {
	ListEvents(ctx context.Context, f EventFilter) ([]evdomain.Event, error)
}
