package domain

import (
	"time"

	"github.com/google/uuid"
)

type SubgroupInfo struct {
	Dimension Dimension `json:"dimension"`
	Value     string    `json:"value"`
	Sessions  int       `json:"sessions"`
}

// Report is the output of one analysis run.
type Report struct {
	RunID      uuid.UUID      `json:"run_id"`
	CreatedAt  time.Time      `json:"created_at"`
	Sessions   int            `json:"sessions"`
	Dimensions []Dimension    `json:"dimensions"`
	Subgroups  []SubgroupInfo `json:"subgroups"`
	Patterns   []PatternRow   `json:"patterns"`
	Funnels    []FunnelRow    `json:"funnels"`
}

// SubgroupSize returns the number of sessions in (d, value), 0 if unknown.
func (r *Report) SubgroupSize(d Dimension, value string) int {
	for _, s := range r.Subgroups {
		if s.Dimension == d && s.Value == value {
			return s.Sessions
		}
	}
	return 0
}

// SummaryRow is a ranked entry of the per-subgroup pattern summary.
type SummaryRow struct {
	Dimension       Dimension   `json:"dimension"`
	Subgroup        string      `json:"subgroup"`
	Type            PatternType `json:"pattern_type"`
	Pattern         []string    `json:"pattern"`
	Support         int         `json:"support"`
	SupportPct      Metric      `json:"support_pct"`
	MeanPrice       Metric      `json:"mean_price"`
	MeanDurationSec Metric      `json:"mean_duration_sec"`
	ModalTimeOfDay  string      `json:"modal_time_of_day"`
	Rank            int         `json:"rank"`
}
