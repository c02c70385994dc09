package usecase

import (
	"context"
	"fmt"

	"clickstream-insights/internal/insights/core/ports"
	"clickstream-insights/internal/insights/core/sessions"
	"clickstream-insights/internal/insights/core/summary"
)

type OverviewInput struct {
	Window
	TopN int
}

type OverviewResult struct {
	Dataset  summary.Dataset  `json:"dataset"`
	Sessions summary.Overview `json:"sessions"`
}

// OverviewUseCase describes the event log and all of its sessions, browsing
// only ones included.
type OverviewUseCase struct {
	source  ports.EventSourcePort
	builder *sessions.Builder
}

func NewOverviewUseCase(source ports.EventSourcePort, builder *sessions.Builder) *OverviewUseCase {
	return &OverviewUseCase{source: source, builder: builder}
}

func (uc *OverviewUseCase) Execute(ctx context.Context, in OverviewInput) (*OverviewResult, error) {
	filter, err := in.filter()
	if err != nil {
		return nil, err
	}
	topN := in.TopN
	if topN <= 0 {
		topN = 10
	}

	events, err := uc.source.ListEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	all, _, err := uc.builder.Build(events)
	if err != nil {
		return nil, err
	}

	return &OverviewResult{
		Dataset:  summary.Describe(events),
		Sessions: summary.Summarize(all, topN),
	}, nil
}
