package domain

import (
	"fmt"
	"time"
)

// Dimension is a session attribute the aggregator partitions on.
type Dimension string

const (
	DimensionPriceTier Dimension = "price_tier"
	DimensionCategory  Dimension = "category"
	DimensionTimeOfDay Dimension = "time_of_day"
)

// Dimensions in the order reports are produced.
var Dimensions = []Dimension{DimensionPriceTier, DimensionCategory, DimensionTimeOfDay}

func ParseDimension(s string) (Dimension, error) {
	switch d := Dimension(s); d {
	case DimensionPriceTier, DimensionCategory, DimensionTimeOfDay:
		return d, nil
	}
	return "", fmt.Errorf("unknown dimension %q", s)
}

// Time-of-day buckets.
const (
	Morning   = "Morning"
	Afternoon = "Afternoon"
	Evening   = "Evening"
	Night     = "Night"
)

type Attributes struct {
	MeanPrice      float64
	Category       string
	PriceTier      string
	TimeOfDay      string
	DurationSec    float64
	UniqueProducts int
	UniqueBrands   int
	Start          time.Time
	End            time.Time
}

// Session is one visit: its events' types in timestamp order plus
// attributes derived from the same events.
type Session struct {
	Key      string
	UserID   string
	Sequence []string
	Attributes
}

// Attribute returns the session's value for d.
func (s Session) Attribute(d Dimension) string {
	switch d {
	case DimensionPriceTier:
		return s.PriceTier
	case DimensionCategory:
		return s.Category
	case DimensionTimeOfDay:
		return s.TimeOfDay
	}
	return ""
}

// HasInteraction reports whether the session has any cart, purchase or
// removal event.
func (s Session) HasInteraction() bool {
	for _, sym := range s.Sequence {
		if isInteraction(sym) {
			return true
		}
	}
	return false
}
