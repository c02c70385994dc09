package clickhouse

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"clickstream-insights/internal/insights/core/ports"
)

type fakeRowScanner struct {
	rows   [][]any
	i      int
	err    error
	closed bool
}

func (f *fakeRowScanner) Next() bool {
	return f.i < len(f.rows)
}

func (f *fakeRowScanner) Scan(dest ...any) error {
	row := f.rows[f.i]
	if len(dest) != len(row) {
		return errors.New("dest length mismatch")
	}
	for i := range dest {
		switch d := dest[i].(type) {
		case *string:
			*d = row[i].(string)
		case *float64:
			*d = row[i].(float64)
		case *time.Time:
			*d = row[i].(time.Time)
		default:
			return errors.New("unsupported dest type")
		}
	}
	f.i++
	return nil
}

func (f *fakeRowScanner) Err() error { return f.err }

func (f *fakeRowScanner) Close() error {
	f.closed = true
	return nil
}

type fakeQuerier struct {
	QueryFn   func(ctx context.Context, query string, args ...any) (RowScanner, error)
	lastQuery string
	lastArgs  []any
}

func (f *fakeQuerier) Query(ctx context.Context, query string, args ...any) (RowScanner, error) {
	f.lastQuery = query
	f.lastArgs = args
	return f.QueryFn(ctx, query, args...)
}

func TestEventSource_ListEvents(t *testing.T) {
	ts := time.Date(2019, 10, 5, 18, 0, 0, 0, time.UTC)
	rows := &fakeRowScanner{rows: [][]any{
		{"s1", "u1", "view", ts, "p1", "c1", "electronics.audio", "sony", 99.0, "High", "electronics"},
		{"s1", "u1", "purchase", ts.Add(time.Minute), "p1", "c1", "electronics.audio", "", 99.0, "High", "electronics"},
	}}
	q := &fakeQuerier{QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
		return rows, nil
	}}

	src, err := NewEventSource(q, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	from, to := ts.Add(-time.Hour), ts.Add(time.Hour)
	events, err := src.ListEvents(context.Background(), ports.EventFilter{From: from, To: to})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(q.lastQuery, "FROM "+DefaultTable) || !strings.Contains(q.lastQuery, "BETWEEN ? AND ?") {
		t.Fatalf("unexpected query: %s", q.lastQuery)
	}
	if len(q.lastArgs) != 2 {
		t.Fatalf("expected 2 args, got %d", len(q.lastArgs))
	}
	if len(events) != 2 || events[1].EventType != "purchase" || events[1].Brand != "" {
		t.Fatalf("unexpected events: %+v", events)
	}
	if !rows.closed {
		t.Fatalf("expected rows to be closed")
	}
}

func TestEventSource_Errors(t *testing.T) {
	q := &fakeQuerier{QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
		return nil, errors.New("connection reset")
	}}
	src, _ := NewEventSource(q, "analytics.events")
	if _, err := src.ListEvents(context.Background(), ports.EventFilter{}); err == nil {
		t.Fatalf("expected error")
	}
	if strings.Contains(q.lastQuery, "WHERE") {
		t.Fatalf("expected unbounded query, got %s", q.lastQuery)
	}

	q.QueryFn = func(ctx context.Context, query string, args ...any) (RowScanner, error) {
		return &fakeRowScanner{err: errors.New("stream broken")}, nil
	}
	if _, err := src.ListEvents(context.Background(), ports.EventFilter{}); err == nil {
		t.Fatalf("expected rows error")
	}
}

func TestNewEventSource_RejectsUnsafeTable(t *testing.T) {
	for _, name := range []string{"events; DROP TABLE x", "a.b.c", "1events", "ev-ents"} {
		if _, err := NewEventSource(&fakeQuerier{}, name); !errors.Is(err, ErrInvalidTable) {
			t.Fatalf("%q: expected ErrInvalidTable, got %v", name, err)
		}
	}
}
