package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"clickstream-insights/internal/common"
	"clickstream-insights/internal/config"
	evcsv "clickstream-insights/internal/events/adapters/csv"
	evdomain "clickstream-insights/internal/events/core/domain"
	evusecase "clickstream-insights/internal/events/core/usecase"
	"clickstream-insights/internal/insights/core/domain"
	"clickstream-insights/internal/insights/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	events []evdomain.Event
	err    error
}

func (f fakeSource) ListEvents(_ context.Context, _ ports.EventFilter) ([]evdomain.Event, error) {
	return f.events, f.err
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	return p
}

func TestResolveInputs(t *testing.T) {
	dir := t.TempDir()
	b := touch(t, dir, "b.csv")
	a := touch(t, dir, "a.csv")
	touch(t, dir, "notes.txt")

	got, err := resolveInputs([]string{b}, []string{filepath.Join(dir, "*.csv")})
	require.NoError(t, err)
	assert.Equal(t, []string{b, a}, got)
}

func TestResolveInputs_BadPattern(t *testing.T) {
	_, err := resolveInputs(nil, []string{"["})
	var userErr *common.UserError
	assert.True(t, errors.As(err, &userErr))
}

func TestEventSource_UnknownKind(t *testing.T) {
	res := &resources{cfg: &config.Config{}}
	_, err := res.eventSource(context.Background(), "kafka", nil)
	var userErr *common.UserError
	require.True(t, errors.As(err, &userErr))
	assert.Contains(t, userErr.UserMessage, "kafka")
}

func TestEventSource_PostgresNotConfigured(t *testing.T) {
	res := &resources{cfg: &config.Config{}}
	_, err := res.eventSource(context.Background(), sourcePostgres, nil)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestEventSource_CSVWithoutInputs(t *testing.T) {
	res := &resources{cfg: &config.Config{}}
	_, err := res.eventSource(context.Background(), sourceCSV, nil)
	var userErr *common.UserError
	assert.True(t, errors.As(err, &userErr))
}

func rawEvents() []evdomain.Event {
	base := time.Date(2019, 10, 1, 8, 0, 0, 0, time.UTC)
	mk := func(i int, price float64) evdomain.Event {
		return evdomain.Event{
			SessionKey:   "s1",
			UserID:       "u1",
			EventType:    evdomain.EventTypeView,
			EventTime:    base.Add(time.Duration(i) * time.Minute),
			ProductID:    "p1",
			CategoryID:   "c1",
			CategoryCode: "electronics.smartphone",
			Brand:        "apple",
			Price:        price,
		}
	}
	return []evdomain.Event{mk(0, 1), mk(1, 2), mk(2, 3), mk(3, 4)}
}

func TestPreparingSource(t *testing.T) {
	src := preparingSource{next: fakeSource{events: rawEvents()}}

	events, err := src.ListEvents(context.Background(), ports.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 4)

	tiers := make([]string, 0, len(events))
	for _, e := range events {
		tiers = append(tiers, e.PriceTier)
		assert.Equal(t, "electronics", e.Category)
	}
	assert.Equal(t, []string{"Low", "Medium", "High", "High"}, tiers)
}

func TestPreparingSource_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	src := preparingSource{next: fakeSource{err: boom}}

	_, err := src.ListEvents(context.Background(), ports.EventFilter{})
	assert.ErrorIs(t, err, boom)
}

func TestWritePrepared_File(t *testing.T) {
	res, err := evusecase.Prepare(evusecase.PrepareInput{Events: rawEvents()})
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "prepared.csv")
	require.NoError(t, writePrepared(&bytes.Buffer{}, out, res))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	events, _, err := evcsv.ReadAll(f)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, "Medium", events[1].PriceTier)
	assert.True(t, events[3].Valid())
}

func TestWritePrepared_Stdout(t *testing.T) {
	res, err := evusecase.Prepare(evusecase.PrepareInput{Events: rawEvents()})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writePrepared(&buf, "-", res))
	assert.Contains(t, buf.String(), "price_tier")
	assert.Contains(t, buf.String(), "electronics.smartphone")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	err := printSummary(&buf, []domain.SummaryRow{{
		Dimension:  domain.DimensionPriceTier,
		Subgroup:   "Low",
		Type:       domain.PatternFullSession,
		Pattern:    []string{"view", "cart"},
		Support:    3,
		SupportPct: domain.NewMetric(60),
		MeanPrice:  domain.Metric{},
		Rank:       1,
	}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "PATTERN")
	assert.Contains(t, out, domain.FormatPattern([]string{"view", "cart"}))
	assert.Contains(t, out, domain.NoData)
}
