package usecase

import (
	"context"
	"errors"

	"clickstream-insights/internal/eventstats/core/domain"
	"clickstream-insights/internal/eventstats/core/ports"
)

var (
	ErrInvalidStatsQuery = errors.New("invalid stats query")
	ErrInvalidTimeRange  = errors.New("invalid time range")
	ErrInvalidGroupBy    = errors.New("invalid group_by value")
	ErrInvalidInterval   = errors.New("invalid interval for time grouping")
)

type GetStatsInput struct {
	EventType string
	From      int64
	To        int64

	PriceTier *string
	GroupBy   string
	Interval  string // required when GroupBy is "time"
}

type GetStatsUseCase struct {
	reader ports.StatsReaderPort
}

func NewGetStatsUseCase(reader ports.StatsReaderPort) *GetStatsUseCase {
	return &GetStatsUseCase{reader: reader}
}

// Execute validates the input and asks the reader for the aggregates.
func (uc *GetStatsUseCase) Execute(ctx context.Context, in GetStatsInput) (*domain.EventStats, error) {
	if in.EventType == "" {
		return nil, ErrInvalidStatsQuery
	}

	if in.From <= 0 || in.To <= 0 || in.From > in.To {
		return nil, ErrInvalidTimeRange
	}

	switch in.GroupBy {
	case domain.GroupByNone, domain.GroupByPriceTier, domain.GroupByCategory:
	case domain.GroupByTime:
		if in.Interval != "hour" && in.Interval != "day" {
			return nil, ErrInvalidInterval
		}
	default:
		return nil, ErrInvalidGroupBy
	}

	return uc.reader.QueryStats(ctx, ports.StatsFilter{
		EventType: in.EventType,
		From:      in.From,
		To:        in.To,
		PriceTier: in.PriceTier,
		GroupBy:   in.GroupBy,
		Interval:  in.Interval,
	})
}
