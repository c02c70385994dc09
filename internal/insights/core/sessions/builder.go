// Package sessions turns a flat event log into per-visit sessions.
package sessions

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	evdomain "clickstream-insights/internal/events/core/domain"
	"clickstream-insights/internal/insights/core/domain"
)

var ErrEmptySession = errors.New("session has no events")

type Options struct {
	// Location used for time-of-day bucketing. Nil means UTC.
	Location *time.Location
}

type BuildStats struct {
	Events   int
	Dropped  int
	Sessions int
}

type Builder struct {
	loc *time.Location
}

func NewBuilder(opts Options) *Builder {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Builder{loc: loc}
}

// Build drops events failing Valid, groups the rest by session key and
// returns one session per key in ascending key order.
func (b *Builder) Build(events []evdomain.Event) ([]domain.Session, BuildStats, error) {
	stats := BuildStats{Events: len(events)}

	groups := make(map[string][]evdomain.Event)
	for _, e := range events {
		if !e.Valid() {
			stats.Dropped++
			continue
		}
		groups[e.SessionKey] = append(groups[e.SessionKey], e)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]domain.Session, 0, len(keys))
	for _, k := range keys {
		s, err := b.BuildSession(k, groups[k])
		if err != nil {
			return nil, stats, err
		}
		out = append(out, s)
	}
	stats.Sessions = len(out)

	return out, stats, nil
}

// BuildSession orders one session's events by time (stable on ties) and
// derives its attributes. events is not modified.
func (b *Builder) BuildSession(key string, events []evdomain.Event) (domain.Session, error) {
	if len(events) == 0 {
		return domain.Session{}, fmt.Errorf("%w: %s", ErrEmptySession, key)
	}

	ordered := slices.Clone(events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EventTime.Before(ordered[j].EventTime)
	})

	var (
		seq        = make([]string, len(ordered))
		categories = make([]string, len(ordered))
		tiers      = make([]string, len(ordered))
		buckets    = make([]string, len(ordered))
		products   = make(map[string]struct{})
		brands     = make(map[string]struct{})
	)
	var priceSum float64
	start, end := ordered[0].EventTime, ordered[0].EventTime

	for i, e := range ordered {
		seq[i] = e.EventType
		categories[i] = e.Category
		tiers[i] = e.PriceTier
		buckets[i] = TimeOfDay(e.EventTime, b.loc)
		priceSum += e.Price

		products[e.ProductID] = struct{}{}
		if e.Brand != "" {
			brands[e.Brand] = struct{}{}
		}
		if e.EventTime.Before(start) {
			start = e.EventTime
		}
		if e.EventTime.After(end) {
			end = e.EventTime
		}
	}

	return domain.Session{
		Key:      key,
		UserID:   ordered[0].UserID,
		Sequence: seq,
		Attributes: domain.Attributes{
			MeanPrice:      priceSum / float64(len(ordered)),
			Category:       ModeOr(categories, domain.Unknown),
			PriceTier:      ModeOr(tiers, domain.Unknown),
			TimeOfDay:      ModeOr(buckets, domain.Unknown),
			DurationSec:    end.Sub(start).Seconds(),
			UniqueProducts: len(products),
			UniqueBrands:   len(brands),
			Start:          start,
			End:            end,
		},
	}, nil
}

// FilterInteraction keeps the sessions with at least one cart, purchase or
// removal event, preserving order.
func FilterInteraction(sessions []domain.Session) []domain.Session {
	out := make([]domain.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.HasInteraction() {
			out = append(out, s)
		}
	}
	return out
}
