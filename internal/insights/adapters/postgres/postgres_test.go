package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"
	"time"

	"clickstream-insights/internal/insights/core/domain"
	"clickstream-insights/internal/insights/core/ports"

	"github.com/google/uuid"
)

// fakeRowScanner implements RowScanner for tests.
type fakeRowScanner struct {
	rows []fakeRow
	i    int
	err  error
}

type fakeRow struct {
	values []any
}

func (f *fakeRowScanner) Next() bool {
	return f.i < len(f.rows)
}

func (f *fakeRowScanner) Scan(dest ...any) error {
	if f.i >= len(f.rows) {
		return errors.New("no more rows")
	}
	row := f.rows[f.i]
	if len(dest) != len(row.values) {
		return errors.New("dest length mismatch")
	}
	for i := range dest {
		switch d := dest[i].(type) {
		case *string:
			v, ok := row.values[i].(string)
			if !ok {
				return errors.New("type assertion to string failed")
			}
			*d = v
		case *float64:
			v, ok := row.values[i].(float64)
			if !ok {
				return errors.New("type assertion to float64 failed")
			}
			*d = v
		case *time.Time:
			v, ok := row.values[i].(time.Time)
			if !ok {
				return errors.New("type assertion to time.Time failed")
			}
			*d = v
		case *sql.NullString:
			if err := d.Scan(row.values[i]); err != nil {
				return err
			}
		default:
			return errors.New("unsupported dest type")
		}
	}
	f.i++
	return nil
}

func (f *fakeRowScanner) Err() error {
	return f.err
}

func (f *fakeRowScanner) Close() error {
	return nil
}

type fakeResult struct{}

func (fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (fakeResult) RowsAffected() (int64, error) { return 1, nil }

type execCall struct {
	query string
	args  []any
}

// fakeDB implements DB interface.
type fakeDB struct {
	QueryFn   func(ctx context.Context, query string, args ...any) (RowScanner, error)
	ExecFn    func(ctx context.Context, query string, args ...any) (sql.Result, error)
	lastQuery string
	lastArgs  []any
	execs     []execCall
}

func (f *fakeDB) QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error) {
	f.lastQuery = query
	f.lastArgs = args
	if f.QueryFn != nil {
		return f.QueryFn(ctx, query, args...)
	}
	return &fakeRowScanner{}, nil
}

func (f *fakeDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.execs = append(f.execs, execCall{query: query, args: args})
	if f.ExecFn != nil {
		return f.ExecFn(ctx, query, args...)
	}
	return fakeResult{}, nil
}

// ------------------------------------------------------------
// EVENT SOURCE
// ------------------------------------------------------------

func TestEventSource_ListEvents(t *testing.T) {
	ts := time.Date(2019, 10, 1, 10, 0, 0, 0, time.UTC)
	db := &fakeDB{
		QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
			if !strings.Contains(query, "FROM clickstream_events") {
				t.Fatalf("unexpected query: %s", query)
			}
			return &fakeRowScanner{
				rows: []fakeRow{
					{values: []any{"s1", "u1", "view", ts, "p1", "c1", "electronics.audio", "sony", 12.5, "Low", "electronics"}},
					{values: []any{"s1", nil, "cart", ts.Add(time.Minute), "p1", nil, nil, nil, 12.5, "Low", "electronics"}},
				},
			}, nil
		},
	}

	events, err := NewEventSource(db).ListEvents(context.Background(), ports.EventFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(db.lastQuery, "WHERE") || len(db.lastArgs) != 0 {
		t.Fatalf("expected unbounded query, got %s %v", db.lastQuery, db.lastArgs)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Brand != "sony" || events[0].UserID != "u1" || events[0].Price != 12.5 {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if events[1].Brand != "" || events[1].UserID != "" || !events[1].Valid() {
		t.Fatalf("unexpected second event: %+v", events[1])
	}
}

func TestEventSource_TimeWindow(t *testing.T) {
	db := &fakeDB{}
	from := time.Unix(100, 0).UTC()
	to := time.Unix(200, 0).UTC()

	if _, err := NewEventSource(db).ListEvents(context.Background(), ports.EventFilter{From: from, To: to}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(db.lastQuery, "event_time BETWEEN $1 AND $2") {
		t.Fatalf("expected time filter, got %s", db.lastQuery)
	}
	if len(db.lastArgs) != 2 || db.lastArgs[0] != from || db.lastArgs[1] != to {
		t.Fatalf("unexpected args: %v", db.lastArgs)
	}
}

func TestEventSource_DBError(t *testing.T) {
	db := &fakeDB{
		QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
			return nil, errors.New("db failure")
		},
	}
	res, err := NewEventSource(db).ListEvents(context.Background(), ports.EventFilter{})
	if err == nil || !strings.Contains(err.Error(), "db failure") {
		t.Fatalf("expected db failure, got %v", err)
	}
	if res != nil {
		t.Fatalf("expected nil result on error")
	}
}

func TestEventSource_RowsError(t *testing.T) {
	db := &fakeDB{
		QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
			return &fakeRowScanner{err: errors.New("broken pipe")}, nil
		},
	}
	if _, err := NewEventSource(db).ListEvents(context.Background(), ports.EventFilter{}); err == nil {
		t.Fatalf("expected rows error")
	}
}

// ------------------------------------------------------------
// REPORT REPOSITORY
// ------------------------------------------------------------

func sampleReport() (*domain.Report, []domain.SummaryRow) {
	report := &domain.Report{
		RunID:      uuid.MustParse("6f1c2f7e-1d7a-4d4a-9a57-3c2b1f0e9d8c"),
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Sessions:   3,
		Dimensions: []domain.Dimension{domain.DimensionPriceTier},
		Patterns: []domain.PatternRow{{
			Dimension:      domain.DimensionPriceTier,
			Subgroup:       "Low",
			Type:           domain.PatternFullSession,
			Pattern:        []string{"view", "cart"},
			Support:        2,
			MeanPrice:      domain.NewMetric(10),
			ModalTimeOfDay: domain.Morning,
		}},
		Funnels: []domain.FunnelRow{{
			Dimension:              domain.DimensionPriceTier,
			Subgroup:               "Low",
			ModalTimeOfDayPurchase: domain.NoData,
			ModalTimeOfDayRemoval:  domain.NoData,
		}},
	}
	summary := []domain.SummaryRow{{
		Dimension: domain.DimensionPriceTier, Subgroup: "Low", Type: domain.PatternFullSession,
		Pattern: []string{"view", "cart"}, Support: 2, SupportPct: domain.NewMetric(66.7), Rank: 1,
	}}
	return report, summary
}

func TestReportRepository_WriteReport(t *testing.T) {
	db := &fakeDB{}
	report, summary := sampleReport()

	if err := NewReportRepository(db).WriteReport(context.Background(), report, summary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(db.execs) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(db.execs))
	}

	wantTables := []string{"analysis_runs", "pattern_report", "funnel_report", "pattern_summary"}
	for i, tbl := range wantTables {
		if !strings.Contains(db.execs[i].query, "INSERT INTO "+tbl) {
			t.Fatalf("statement %d: expected insert into %s, got %s", i, tbl, db.execs[i].query)
		}
		if db.execs[i].args[0] != report.RunID {
			t.Fatalf("statement %d: expected run id first", i)
		}
	}

	// pattern arrays go through pq.Array
	pattern, ok := db.execs[1].args[4].(driver.Valuer)
	if !ok {
		t.Fatalf("expected pattern arg to be a driver.Valuer, got %T", db.execs[1].args[4])
	}
	v, err := pattern.Value()
	if err != nil || v != `{"view","cart"}` {
		t.Fatalf("unexpected pattern value: %v (%v)", v, err)
	}

	// invalid metrics become NULL
	dur := db.execs[1].args[8].(sql.NullFloat64)
	if dur.Valid {
		t.Fatalf("expected NULL mean_duration_sec, got %+v", dur)
	}
	rate := db.execs[2].args[4].(sql.NullFloat64)
	if rate.Valid {
		t.Fatalf("expected NULL abandonment rate, got %+v", rate)
	}
	price := db.execs[1].args[6].(sql.NullFloat64)
	if !price.Valid || price.Float64 != 10 {
		t.Fatalf("expected mean_price 10, got %+v", price)
	}
}

func TestReportRepository_StopsOnError(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			if strings.Contains(query, "pattern_report") {
				return nil, errors.New("constraint violation")
			}
			return fakeResult{}, nil
		},
	}
	report, summary := sampleReport()

	err := NewReportRepository(db).WriteReport(context.Background(), report, summary)
	if err == nil || !strings.Contains(err.Error(), "insert pattern row") {
		t.Fatalf("expected wrapped insert error, got %v", err)
	}
	if len(db.execs) != 2 {
		t.Fatalf("expected to stop after the failing statement, got %d", len(db.execs))
	}
}
