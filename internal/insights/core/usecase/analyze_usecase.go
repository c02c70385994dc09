package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clickstream-insights/internal/insights/core/analysis"
	"clickstream-insights/internal/insights/core/domain"
	"clickstream-insights/internal/insights/core/ports"
	"clickstream-insights/internal/insights/core/sessions"
	"clickstream-insights/internal/insights/core/summary"
)

var (
	ErrInvalidTimeRange   = errors.New("invalid time range")
	ErrInvalidDimension   = errors.New("invalid dimension")
	ErrInvalidPatternType = errors.New("invalid pattern_type")
)

// Window is a unix-seconds time range. Both zero means everything.
type Window struct {
	From int64
	To   int64
}

func (w Window) filter() (ports.EventFilter, error) {
	if w.From == 0 && w.To == 0 {
		return ports.EventFilter{}, nil
	}
	if w.From <= 0 || w.To <= 0 || w.From > w.To {
		return ports.EventFilter{}, ErrInvalidTimeRange
	}
	return ports.EventFilter{
		From: time.Unix(w.From, 0).UTC(),
		To:   time.Unix(w.To, 0).UTC(),
	}, nil
}

type AnalyzeInput struct {
	Window
	Dimensions []string
	// SummaryTopN overrides the ranked summary size when positive.
	SummaryTopN int
}

type AnalyzeResult struct {
	Report  *domain.Report
	Summary []domain.SummaryRow
	Build   sessions.BuildStats
	// Analysed is the number of sessions with cart activity.
	Analysed int
}

type AnalyzeUseCase struct {
	source     ports.EventSourcePort
	builder    *sessions.Builder
	aggregator *analysis.Aggregator
	writers    []ports.ReportWriterPort
	topN       int
}

type Option func(*AnalyzeUseCase)

// WithReportWriter adds a sink every successful report is written to.
func WithReportWriter(w ports.ReportWriterPort) Option {
	return func(uc *AnalyzeUseCase) {
		uc.writers = append(uc.writers, w)
	}
}

func WithSummaryTopN(n int) Option {
	return func(uc *AnalyzeUseCase) {
		uc.topN = n
	}
}

func NewAnalyzeUseCase(source ports.EventSourcePort, builder *sessions.Builder, aggregator *analysis.Aggregator, opts ...Option) *AnalyzeUseCase {
	uc := &AnalyzeUseCase{
		source:     source,
		builder:    builder,
		aggregator: aggregator,
		topN:       summary.DefaultTopN,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *AnalyzeUseCase) Execute(ctx context.Context, in AnalyzeInput) (*AnalyzeResult, error) {
	filter, err := in.filter()
	if err != nil {
		return nil, err
	}
	dims, err := parseDimensions(in.Dimensions)
	if err != nil {
		return nil, err
	}

	events, err := uc.source.ListEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	all, stats, err := uc.builder.Build(events)
	if err != nil {
		return nil, err
	}
	active := sessions.FilterInteraction(all)

	slog.Info("sessions built",
		"events", stats.Events,
		"dropped", stats.Dropped,
		"sessions", stats.Sessions,
		"with_interaction", len(active),
	)

	report, err := uc.aggregator.Run(ctx, active, dims)
	if err != nil {
		return nil, err
	}
	topN := uc.topN
	if in.SummaryTopN > 0 {
		topN = in.SummaryTopN
	}
	ranked := summary.Rank(report, topN)

	for _, w := range uc.writers {
		if err := w.WriteReport(ctx, report, ranked); err != nil {
			return nil, fmt.Errorf("write report: %w", err)
		}
	}

	return &AnalyzeResult{
		Report:   report,
		Summary:  ranked,
		Build:    stats,
		Analysed: len(active),
	}, nil
}

func parseDimensions(names []string) ([]domain.Dimension, error) {
	if len(names) == 0 {
		return domain.Dimensions, nil
	}
	dims := make([]domain.Dimension, 0, len(names))
	for _, n := range names {
		d, err := domain.ParseDimension(n)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDimension, n)
		}
		dims = append(dims, d)
	}
	return dims, nil
}

// ParsePatternType validates a pattern type name; "" is accepted as "all".
func ParsePatternType(s string) (domain.PatternType, error) {
	switch t := domain.PatternType(s); t {
	case "", domain.PatternFullSession, domain.PatternSubsequenceGeneral,
		domain.PatternInteractionMin2, domain.PatternInteractionMin3:
		return t, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidPatternType, s)
}
