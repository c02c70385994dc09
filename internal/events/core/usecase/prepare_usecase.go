package usecase

import (
	"fmt"
	"math"

	"clickstream-insights/internal/events/core/domain"
	"clickstream-insights/internal/events/core/pricing"
)

type PrepareInput struct {
	Events []domain.Event
	// Strict drops rows missing any column, not just the ones analysis
	// needs (user, brand, category code and id included).
	Strict bool
}

type PrepareResult struct {
	Events     []domain.Event
	Thresholds pricing.Thresholds
	Input      int
	Dropped    int
}

// Prepare labels a raw batch: price tier from the batch-wide 0.33/0.66
// quantiles and main category from the category code. Thresholds are
// estimated over every finite price before any row is dropped.
func Prepare(in PrepareInput) (PrepareResult, error) {
	res := PrepareResult{Input: len(in.Events)}

	prices := make([]float64, 0, len(in.Events))
	for _, e := range in.Events {
		if !math.IsInf(e.Price, 0) {
			prices = append(prices, e.Price)
		}
	}

	th, err := pricing.EstimateThresholds(prices)
	if err != nil {
		return res, fmt.Errorf("estimate thresholds: %w", err)
	}
	res.Thresholds = th

	out := make([]domain.Event, 0, len(in.Events))
	for _, e := range in.Events {
		if math.IsNaN(e.Price) || math.IsInf(e.Price, 0) {
			res.Dropped++
			continue
		}
		e.PriceTier = th.Tier(e.Price)
		e.Category = pricing.MainCategory(e.CategoryCode)

		if !e.Valid() || (in.Strict && !complete(e)) {
			res.Dropped++
			continue
		}
		out = append(out, e)
	}
	res.Events = out

	return res, nil
}

func complete(e domain.Event) bool {
	return e.UserID != "" &&
		e.CategoryID != "" &&
		e.CategoryCode != "" &&
		e.Brand != "" &&
		!e.EventTime.IsZero()
}
