// Package pricing derives the pre-computed event labels the analytics engine
// partitions on: price tier and top-level category.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

const (
	TierLow    = "Low"
	TierMedium = "Medium"
	TierHigh   = "High"
)

// Quantiles used to split the corpus into three tiers.
const (
	LowQuantile  = 0.33
	HighQuantile = 0.66
)

var ErrNoPrices = errors.New("no prices to estimate thresholds from")

// Thresholds splits prices into tiers: Low <= Low, Medium <= High, High above.
type Thresholds struct {
	Low  float64
	High float64
}

// EstimateThresholds takes the global 0.33/0.66 quantiles of prices.
// NaN values are ignored. prices is not modified.
func EstimateThresholds(prices []float64) (Thresholds, error) {
	sorted := make([]float64, 0, len(prices))
	for _, p := range prices {
		if !math.IsNaN(p) {
			sorted = append(sorted, p)
		}
	}
	if len(sorted) == 0 {
		return Thresholds{}, ErrNoPrices
	}
	slices.Sort(sorted)

	return Thresholds{
		Low:  Quantile(sorted, LowQuantile),
		High: Quantile(sorted, HighQuantile),
	}, nil
}

// Quantile returns the q-quantile of an ascending slice using linear
// interpolation between the closest ranks.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Tier labels price against t.
func (t Thresholds) Tier(price float64) string {
	switch {
	case price <= t.Low:
		return TierLow
	case price <= t.High:
		return TierMedium
	default:
		return TierHigh
	}
}

func (t Thresholds) String() string {
	return fmt.Sprintf("Low <= %.2f, Medium <= %.2f, High > %.2f", t.Low, t.High, t.High)
}

// MainCategory returns the top-level segment of a dotted category code,
// e.g. "electronics.smartphone" -> "electronics". Empty input yields "".
func MainCategory(categoryCode string) string {
	code := strings.TrimSpace(categoryCode)
	if code == "" {
		return ""
	}
	head, _, _ := strings.Cut(code, ".")
	return head
}
