// Package funnel classifies what happened after a session's first cart
// event and summarises it per subgroup.
package funnel

import (
	"slices"

	"clickstream-insights/internal/insights/core/domain"
	"clickstream-insights/internal/insights/core/sessions"
)

// Classify looks at the first cart event of seq. A purchase whose first
// occurrence comes later wins over a removal whose first occurrence comes
// later; otherwise the cart was abandoned. ok is false when seq has no cart.
func Classify(seq []string) (outcome domain.Outcome, ok bool) {
	cart := slices.Index(seq, domain.SymbolCart)
	if cart < 0 {
		return "", false
	}
	if i := slices.Index(seq, domain.SymbolPurchase); i > cart {
		return domain.OutcomePurchase, true
	}
	if i := slices.Index(seq, domain.SymbolRemoveFromCart); i > cart {
		return domain.OutcomeRemoval, true
	}
	return domain.OutcomeAbandoned, true
}

// Summarize computes the funnel row of one subgroup.
func Summarize(d domain.Dimension, value string, group []domain.Session) domain.FunnelRow {
	row := domain.FunnelRow{Dimension: d, Subgroup: value}

	var (
		abandoned     int
		removed       int
		purchased     int
		purchaseTimes []string
		removalTimes  []string
	)
	for _, s := range group {
		outcome, ok := Classify(s.Sequence)
		if !ok {
			continue
		}
		row.CartSessions++
		switch outcome {
		case domain.OutcomePurchase:
			purchased++
			purchaseTimes = append(purchaseTimes, s.TimeOfDay)
		case domain.OutcomeRemoval:
			removed++
			removalTimes = append(removalTimes, s.TimeOfDay)
		default:
			abandoned++
		}
	}

	row.AbandonmentRatePct = domain.Percent(abandoned, row.CartSessions)
	row.RemovalRatePct = domain.Percent(removed, row.CartSessions)
	row.PurchaseRatePct = domain.Percent(purchased, row.CartSessions)
	row.ModalTimeOfDayPurchase = sessions.ModeOr(purchaseTimes, domain.NoData)
	row.ModalTimeOfDayRemoval = sessions.ModeOr(removalTimes, domain.NoData)

	return row
}
