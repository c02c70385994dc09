// Package csv reads and writes clickstream events in the Kaggle
// "eCommerce behavior data" layout, optionally extended with the prepared
// price_tier / main_category columns.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"clickstream-insights/internal/events/core/domain"
)

var ErrMissingColumn = errors.New("required column missing from header")

// Header aliases. The first name is the one the writer emits.
var columns = map[string][]string{
	"event_time":    {"event_time"},
	"event_type":    {"event_type"},
	"product_id":    {"product_id"},
	"category_id":   {"category_id"},
	"category_code": {"category_code"},
	"brand":         {"brand"},
	"price":         {"price"},
	"user_id":       {"user_id"},
	"user_session":  {"user_session", "session_key"},
	"price_tier":    {"price_tier", "price_chunk"},
	"main_category": {"main_category", "category"},
}

var requiredColumns = []string{"event_time", "event_type", "product_id", "price", "user_session"}

var timeLayouts = []string{
	"2006-01-02 15:04:05 MST",
	time.RFC3339Nano,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
}

type ReadStats struct {
	Rows       int
	BadTime    int
	Incomplete int
}

type Reader struct {
	r     *csv.Reader
	index map[string]int
	line  int
	stats ReadStats
}

// NewReader consumes the header row of r.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(columns))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))
		for canonical, aliases := range columns {
			for _, alias := range aliases {
				if strings.EqualFold(name, alias) {
					if _, seen := index[canonical]; !seen {
						index[canonical] = i
					}
				}
			}
		}
	}

	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	return &Reader{r: cr, index: index, line: 1}, nil
}

// Next returns the next event. Rows whose timestamp cannot be parsed are
// skipped and counted. Missing optional values are left empty and a missing
// or unparsable price becomes NaN, so domain.Event.Valid() rejects them
// downstream. Returns io.EOF when the input is exhausted.
func (r *Reader) Next() (domain.Event, error) {
	for {
		rec, err := r.r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return domain.Event{}, io.EOF
			}
			return domain.Event{}, fmt.Errorf("line %d: %w", r.line+1, err)
		}
		r.line++
		r.stats.Rows++

		ts, ok := parseTime(r.field(rec, "event_time"))
		if !ok {
			r.stats.BadTime++
			continue
		}

		e := domain.Event{
			SessionKey:   r.field(rec, "user_session"),
			UserID:       r.field(rec, "user_id"),
			EventType:    r.field(rec, "event_type"),
			EventTime:    ts,
			ProductID:    r.field(rec, "product_id"),
			CategoryID:   r.field(rec, "category_id"),
			CategoryCode: r.field(rec, "category_code"),
			Brand:        r.field(rec, "brand"),
			Price:        parsePrice(r.field(rec, "price")),
			PriceTier:    r.field(rec, "price_tier"),
			Category:     r.field(rec, "main_category"),
		}
		if !e.Valid() {
			r.stats.Incomplete++
		}
		return e, nil
	}
}

// Stats reports what has been read so far. Incomplete rows are still
// returned by Next; the count is informational.
func (r *Reader) Stats() ReadStats {
	return r.stats
}

func (r *Reader) field(rec []string, name string) string {
	i, ok := r.index[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parsePrice(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ReadAll drains r.
func ReadAll(r io.Reader) ([]domain.Event, ReadStats, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, ReadStats{}, err
	}

	var events []domain.Event
	for {
		e, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, reader.Stats(), err
		}
		events = append(events, e)
	}
	return events, reader.Stats(), nil
}

// ReadFiles reads every path in order and concatenates the events, the way
// the chunked exports are loaded.
func ReadFiles(paths []string) ([]domain.Event, ReadStats, error) {
	var (
		all   []domain.Event
		total ReadStats
	)
	for _, p := range paths {
		events, stats, err := readFile(p)
		if err != nil {
			return nil, total, fmt.Errorf("%s: %w", p, err)
		}
		all = append(all, events...)
		total.Rows += stats.Rows
		total.BadTime += stats.BadTime
		total.Incomplete += stats.Incomplete
	}
	return all, total, nil
}

func readFile(path string) ([]domain.Event, ReadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadStats{}, err
	}
	defer f.Close()

	return ReadAll(f)
}
