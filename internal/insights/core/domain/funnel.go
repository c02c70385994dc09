package domain

type Outcome string

const (
	OutcomeAbandoned Outcome = "abandoned"
	OutcomePurchase  Outcome = "converted_to_purchase"
	OutcomeRemoval   Outcome = "converted_to_removal"
)

// FunnelRow summarises cart behaviour of one subgroup. Rates are invalid
// when the subgroup has no cart session.
type FunnelRow struct {
	Dimension              Dimension `json:"dimension"`
	Subgroup               string    `json:"subgroup"`
	CartSessions           int       `json:"cart_sessions"`
	AbandonmentRatePct     Metric    `json:"abandonment_rate_pct"`
	RemovalRatePct         Metric    `json:"removal_rate_pct"`
	PurchaseRatePct        Metric    `json:"purchase_rate_pct"`
	ModalTimeOfDayPurchase string    `json:"modal_time_of_day_purchase"`
	ModalTimeOfDayRemoval  string    `json:"modal_time_of_day_removal"`
}
