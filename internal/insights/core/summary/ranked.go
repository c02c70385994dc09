package summary

import (
	"sort"

	"clickstream-insights/internal/insights/core/domain"
)

const DefaultTopN = 5

// rankedTypes are summarised per subgroup, in this order.
var rankedTypes = []domain.PatternType{domain.PatternFullSession, domain.PatternInteractionMin3}

// Rank keeps the topN full-session and length-3 interaction rows of every
// subgroup in report. Support share is relative to the subgroup's session
// count. Interaction rows carry no duration: their matches are not whole
// sessions.
func Rank(report *domain.Report, topN int) []domain.SummaryRow {
	if topN <= 0 {
		topN = DefaultTopN
	}

	type key struct {
		d domain.Dimension
		v string
		t domain.PatternType
	}
	byKey := make(map[key][]domain.PatternRow)
	for _, r := range report.Patterns {
		k := key{r.Dimension, r.Subgroup, r.Type}
		byKey[k] = append(byKey[k], r)
	}

	out := []domain.SummaryRow{}
	for _, sg := range report.Subgroups {
		for _, typ := range rankedTypes {
			rows := byKey[key{sg.Dimension, sg.Value, typ}]
			sort.SliceStable(rows, func(i, j int) bool {
				return rows[i].Support > rows[j].Support
			})
			if len(rows) > topN {
				rows = rows[:topN]
			}

			for i, r := range rows {
				sr := domain.SummaryRow{
					Dimension:      r.Dimension,
					Subgroup:       r.Subgroup,
					Type:           r.Type,
					Pattern:        r.Pattern,
					Support:        r.Support,
					SupportPct:     domain.Percent(r.Support, sg.Sessions),
					MeanPrice:      r.MeanPrice,
					ModalTimeOfDay: r.ModalTimeOfDay,
					Rank:           i + 1,
				}
				if typ == domain.PatternFullSession {
					sr.MeanDurationSec = r.MeanDurationSec
				}
				out = append(out, sr)
			}
		}
	}
	return out
}
