package domain

import (
	"math"
	"time"
)

// Event types emitted by the storefront. The set is open; these are the ones
// the analytics engine gives meaning to.
const (
	EventTypeView           = "view"
	EventTypeCart           = "cart"
	EventTypeRemoveFromCart = "remove_from_cart"
	EventTypePurchase       = "purchase"
)

// InteractionTypes are the event types that count as cart/checkout
// interaction, in a fixed order.
var InteractionTypes = []string{EventTypeCart, EventTypePurchase, EventTypeRemoveFromCart}

// IsInteraction reports whether eventType is one of InteractionTypes.
func IsInteraction(eventType string) bool {
	switch eventType {
	case EventTypeCart, EventTypePurchase, EventTypeRemoveFromCart:
		return true
	}
	return false
}

type Event struct {
	SessionKey   string
	UserID       string
	EventType    string
	EventTime    time.Time
	ProductID    string
	CategoryID   string
	CategoryCode string
	Brand        string
	Price        float64
	PriceTier    string
	Category     string
	DedupeKey    string
}

// Valid reports whether every field the analytics engine depends on is
// present: event type, product, session, a finite price, price tier and
// top-level category.
func (e Event) Valid() bool {
	return e.EventType != "" &&
		e.ProductID != "" &&
		e.SessionKey != "" &&
		!math.IsNaN(e.Price) && !math.IsInf(e.Price, 0) &&
		e.PriceTier != "" &&
		e.Category != ""
}
