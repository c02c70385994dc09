package domain

import "strings"

// Event symbols with behavioural meaning.
const (
	SymbolView           = "view"
	SymbolCart           = "cart"
	SymbolRemoveFromCart = "remove_from_cart"
	SymbolPurchase       = "purchase"
)

func isInteraction(sym string) bool {
	return sym == SymbolCart || sym == SymbolPurchase || sym == SymbolRemoveFromCart
}

// ContainsInteraction reports whether pattern has at least one interaction
// symbol.
func ContainsInteraction(pattern []string) bool {
	for _, sym := range pattern {
		if isInteraction(sym) {
			return true
		}
	}
	return false
}

type PatternType string

const (
	PatternFullSession        PatternType = "full_session"
	PatternSubsequenceGeneral PatternType = "subsequence_general"
	PatternInteractionMin2    PatternType = "subsequence_interaction_min2"
	PatternInteractionMin3    PatternType = "subsequence_interaction_min3"
)

// PatternSeparator joins symbols when a pattern is rendered as text.
const PatternSeparator = " ➔ "

func FormatPattern(p []string) string {
	return strings.Join(p, PatternSeparator)
}

func ParsePattern(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, PatternSeparator)
}

// PatternRow is one surfaced pattern inside a subgroup, with statistics
// over the sessions of that subgroup that contain it.
type PatternRow struct {
	Dimension       Dimension   `json:"dimension"`
	Subgroup        string      `json:"subgroup"`
	Type            PatternType `json:"pattern_type"`
	Pattern         []string    `json:"pattern"`
	Support         int         `json:"support"`
	MeanPrice       Metric      `json:"mean_price"`
	ModalTimeOfDay  string      `json:"modal_time_of_day"`
	MeanDurationSec Metric      `json:"mean_duration_sec"`
}
