package ports

import (
	"context"

	"clickstream-insights/internal/eventstats/core/domain"
)

type StatsFilter struct {
	EventType string
	From      int64
	To        int64
	PriceTier *string // optional
	GroupBy   string  // "", "price_tier", "main_category", "time"
	Interval  string  // "hour" / "day", only with GroupBy "time"
}

type StatsReaderPort interface {
	QueryStats(ctx context.Context, f StatsFilter) (*domain.EventStats, error)
}
