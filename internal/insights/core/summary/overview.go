package summary

import (
	"slices"

	"clickstream-insights/internal/events/core/pricing"
	"clickstream-insights/internal/insights/core/domain"
	"clickstream-insights/internal/insights/core/mining"
)

type GroupStats struct {
	Sessions           int           `json:"sessions"`
	MeanDurationSec    domain.Metric `json:"mean_duration_sec"`
	MedianDurationSec  domain.Metric `json:"median_duration_sec"`
	MeanUniqueProducts domain.Metric `json:"mean_unique_products"`
	MeanUniqueBrands   domain.Metric `json:"mean_unique_brands"`
}

type PatternStats struct {
	Pattern []string `json:"pattern"`
	GroupStats
}

// Overview compares browsing-only sessions with sessions that touched the
// cart, and lists the most common whole-session patterns.
type Overview struct {
	All                    GroupStats     `json:"all"`
	BrowsingOnly           GroupStats     `json:"browsing_only"`
	Interaction            GroupStats     `json:"interaction"`
	TopPatterns            []PatternStats `json:"top_patterns"`
	TopInteractionPatterns []PatternStats `json:"top_interaction_patterns"`
}

// Summarize builds the Overview of sessions, keeping topN patterns per list.
func Summarize(all []domain.Session, topN int) Overview {
	var browsing, interaction []domain.Session
	for _, s := range all {
		if s.HasInteraction() {
			interaction = append(interaction, s)
		} else {
			browsing = append(browsing, s)
		}
	}

	return Overview{
		All:                    stats(all),
		BrowsingOnly:           stats(browsing),
		Interaction:            stats(interaction),
		TopPatterns:            topPatterns(all, topN),
		TopInteractionPatterns: topPatterns(interaction, topN),
	}
}

func stats(group []domain.Session) GroupStats {
	durations := make([]float64, len(group))
	products := make([]float64, len(group))
	brands := make([]float64, len(group))
	for i, s := range group {
		durations[i] = s.DurationSec
		products[i] = float64(s.UniqueProducts)
		brands[i] = float64(s.UniqueBrands)
	}

	gs := GroupStats{
		Sessions:           len(group),
		MeanDurationSec:    domain.Mean(durations),
		MeanUniqueProducts: domain.Mean(products),
		MeanUniqueBrands:   domain.Mean(brands),
	}
	if len(durations) > 0 {
		slices.Sort(durations)
		gs.MedianDurationSec = domain.NewMetric(pricing.Quantile(durations, 0.5))
	}
	return gs
}

func topPatterns(group []domain.Session, topN int) []PatternStats {
	seqs := make([][]string, len(group))
	for i, s := range group {
		seqs[i] = s.Sequence
	}

	top := mining.CountExact(seqs).MostCommon(topN)
	out := make([]PatternStats, 0, len(top))
	for _, c := range top {
		var matched []domain.Session
		for _, s := range group {
			if mining.Equal(s.Sequence, c.Sequence) {
				matched = append(matched, s)
			}
		}
		out = append(out, PatternStats{Pattern: c.Sequence, GroupStats: stats(matched)})
	}
	return out
}
