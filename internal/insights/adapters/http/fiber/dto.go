package fiber

import "clickstream-insights/internal/insights/core/domain"

type PatternRowResponse struct {
	Dimension       string   `json:"dimension"`
	Subgroup        string   `json:"subgroup"`
	PatternType     string   `json:"pattern_type"`
	Pattern         []string `json:"pattern"`
	PatternText     string   `json:"pattern_text"`
	Support         int      `json:"support"`
	MeanPrice       *float64 `json:"mean_price"`
	ModalTimeOfDay  string   `json:"modal_time_of_day"`
	MeanDurationSec *float64 `json:"mean_duration_sec"`
}

type PatternsResponse struct {
	RunID    string               `json:"run_id"`
	Sessions int                  `json:"sessions"`
	Patterns []PatternRowResponse `json:"patterns"`
}

type FunnelRowResponse struct {
	Dimension              string   `json:"dimension"`
	Subgroup               string   `json:"subgroup"`
	CartSessions           int      `json:"cart_sessions"`
	AbandonmentRatePct     *float64 `json:"abandonment_rate_pct"`
	RemovalRatePct         *float64 `json:"removal_rate_pct"`
	PurchaseRatePct        *float64 `json:"purchase_rate_pct"`
	ModalTimeOfDayPurchase string   `json:"modal_time_of_day_purchase"`
	ModalTimeOfDayRemoval  string   `json:"modal_time_of_day_removal"`
}

type FunnelResponse struct {
	RunID    string              `json:"run_id"`
	Sessions int                 `json:"sessions"`
	Funnels  []FunnelRowResponse `json:"funnels"`
}

type SummaryRowResponse struct {
	Dimension       string   `json:"dimension"`
	Subgroup        string   `json:"subgroup"`
	PatternType     string   `json:"pattern_type"`
	Pattern         []string `json:"pattern"`
	PatternText     string   `json:"pattern_text"`
	Support         int      `json:"support"`
	SupportPct      *float64 `json:"support_pct"`
	MeanPrice       *float64 `json:"mean_price"`
	MeanDurationSec *float64 `json:"mean_duration_sec"`
	ModalTimeOfDay  string   `json:"modal_time_of_day"`
	Rank            int      `json:"rank"`
}

type SummaryResponse struct {
	RunID    string               `json:"run_id"`
	Sessions int                  `json:"sessions"`
	Summary  []SummaryRowResponse `json:"summary"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func metricPtr(m domain.Metric) *float64 {
	if !m.Valid {
		return nil
	}
	v := m.Value
	return &v
}

func toPatternRow(r domain.PatternRow) PatternRowResponse {
	return PatternRowResponse{
		Dimension:       string(r.Dimension),
		Subgroup:        r.Subgroup,
		PatternType:     string(r.Type),
		Pattern:         r.Pattern,
		PatternText:     domain.FormatPattern(r.Pattern),
		Support:         r.Support,
		MeanPrice:       metricPtr(r.MeanPrice),
		ModalTimeOfDay:  r.ModalTimeOfDay,
		MeanDurationSec: metricPtr(r.MeanDurationSec),
	}
}

func toFunnelRow(r domain.FunnelRow) FunnelRowResponse {
	return FunnelRowResponse{
		Dimension:              string(r.Dimension),
		Subgroup:               r.Subgroup,
		CartSessions:           r.CartSessions,
		AbandonmentRatePct:     metricPtr(r.AbandonmentRatePct),
		RemovalRatePct:         metricPtr(r.RemovalRatePct),
		PurchaseRatePct:        metricPtr(r.PurchaseRatePct),
		ModalTimeOfDayPurchase: r.ModalTimeOfDayPurchase,
		ModalTimeOfDayRemoval:  r.ModalTimeOfDayRemoval,
	}
}

func toSummaryRow(r domain.SummaryRow) SummaryRowResponse {
	return SummaryRowResponse{
		Dimension:       string(r.Dimension),
		Subgroup:        r.Subgroup,
		PatternType:     string(r.Type),
		Pattern:         r.Pattern,
		PatternText:     domain.FormatPattern(r.Pattern),
		Support:         r.Support,
		SupportPct:      metricPtr(r.SupportPct),
		MeanPrice:       metricPtr(r.MeanPrice),
		MeanDurationSec: metricPtr(r.MeanDurationSec),
		ModalTimeOfDay:  r.ModalTimeOfDay,
		Rank:            r.Rank,
	}
}
