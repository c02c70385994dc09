package csv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	evcsv "clickstream-insights/internal/events/adapters/csv"
	evdomain "clickstream-insights/internal/events/core/domain"
	"clickstream-insights/internal/insights/core/ports"
)

var ErrNoInputs = errors.New("no input files")

// EventSource reads events from CSV exports. Files are re-read on every call.
type EventSource struct {
	paths []string
}

func NewEventSource(paths []string) (*EventSource, error) {
	if len(paths) == 0 {
		return nil, ErrNoInputs
	}
	return &EventSource{paths: append([]string(nil), paths...)}, nil
}

func (s *EventSource) ListEvents(ctx context.Context, f ports.EventFilter) ([]evdomain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	events, stats, err := evcsv.ReadFiles(s.paths)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	slog.Debug("csv events read",
		"files", len(s.paths),
		"rows", stats.Rows,
		"bad_time", stats.BadTime,
		"incomplete", stats.Incomplete,
	)

	if f.From.IsZero() && f.To.IsZero() {
		return events, nil
	}

	kept := events[:0]
	for _, e := range events {
		if !f.From.IsZero() && e.EventTime.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && e.EventTime.After(f.To) {
			continue
		}
		kept = append(kept, e)
	}
	return kept, nil
}
