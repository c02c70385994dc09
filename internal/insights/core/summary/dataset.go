// Package summary produces descriptive reports over events, sessions and
// mined patterns.
package summary

import (
	"cmp"
	"slices"
	"time"

	evdomain "clickstream-insights/internal/events/core/domain"
)

type TypeShare struct {
	EventType string  `json:"event_type"`
	Count     int     `json:"count"`
	Pct       float64 `json:"pct"`
}

type BrandCategory struct {
	Brand    string `json:"brand"`
	Category string `json:"category"`
}

// Dataset describes a raw or prepared event log.
type Dataset struct {
	Events          int             `json:"events"`
	UniqueUsers     int             `json:"unique_users"`
	Sessions        int             `json:"sessions"`
	UniqueBrands    int             `json:"unique_brands"`
	Start           time.Time       `json:"start"`
	End             time.Time       `json:"end"`
	EventTypes      []TypeShare     `json:"event_types"`
	BrandCategories []BrandCategory `json:"brand_categories"`
}

// Describe counts distinct users, sessions and brands, the share of each
// event type (descending) and the distinct brand/category pairs (sorted).
func Describe(events []evdomain.Event) Dataset {
	ds := Dataset{Events: len(events)}

	users := make(map[string]struct{})
	sessions := make(map[string]struct{})
	brands := make(map[string]struct{})
	pairs := make(map[BrandCategory]struct{})
	types := make(map[string]int)

	for _, e := range events {
		if e.UserID != "" {
			users[e.UserID] = struct{}{}
		}
		if e.SessionKey != "" {
			sessions[e.SessionKey] = struct{}{}
		}
		if e.Brand != "" {
			brands[e.Brand] = struct{}{}
			if e.Category != "" {
				pairs[BrandCategory{Brand: e.Brand, Category: e.Category}] = struct{}{}
			}
		}
		if e.EventType != "" {
			types[e.EventType]++
		}
		if !e.EventTime.IsZero() {
			if ds.Start.IsZero() || e.EventTime.Before(ds.Start) {
				ds.Start = e.EventTime
			}
			if e.EventTime.After(ds.End) {
				ds.End = e.EventTime
			}
		}
	}

	ds.UniqueUsers = len(users)
	ds.Sessions = len(sessions)
	ds.UniqueBrands = len(brands)

	ds.EventTypes = make([]TypeShare, 0, len(types))
	for t, n := range types {
		ds.EventTypes = append(ds.EventTypes, TypeShare{
			EventType: t,
			Count:     n,
			Pct:       float64(n) / float64(len(events)) * 100,
		})
	}
	slices.SortFunc(ds.EventTypes, func(a, b TypeShare) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.EventType, b.EventType)
	})

	ds.BrandCategories = make([]BrandCategory, 0, len(pairs))
	for p := range pairs {
		ds.BrandCategories = append(ds.BrandCategories, p)
	}
	slices.SortFunc(ds.BrandCategories, func(a, b BrandCategory) int {
		if c := cmp.Compare(a.Brand, b.Brand); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})

	return ds
}
