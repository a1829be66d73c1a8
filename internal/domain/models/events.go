package models

import "time"

// EventKind identifies the type of an observed agent action.
type EventKind string

const (
	EventPriceChange     EventKind = "price_change"
	EventInventoryChange EventKind = "inventory_change"
	EventResponse        EventKind = "response_to_competitor"
)

// BehavioralEvent is one observed action by one agent at one timestamp.
// Events are produced by differencing consecutive market snapshots and are
// immutable once recorded.
type BehavioralEvent struct {
	AgentID   string    `json:"agent_id"`
	Area      string    `json:"area"`
	Timestamp time.Time `json:"timestamp"`
	Kind      EventKind `json:"kind"`

	// Magnitude is the signed percentage change (price or inventory).
	Magnitude float64 `json:"magnitude"`

	// FirstMover is true when no competitor moved in the preceding window.
	FirstMover bool `json:"first_mover"`

	// DaysToRespond is only meaningful for response_to_competitor events.
	DaysToRespond int `json:"days_to_respond,omitempty"`

	// Price context at event time, zero when unknown.
	AgentAvgPrice  float64 `json:"agent_avg_price,omitempty"`
	MarketAvgPrice float64 `json:"market_avg_price,omitempty"`

	// MagnitudeRatio is the agent's move magnitude relative to the
	// concurrent market-wide average move, zero when unknown.
	MagnitudeRatio float64 `json:"magnitude_ratio,omitempty"`
}

// IsMove reports whether the event is a price move.
func (e BehavioralEvent) IsMove() bool {
	return e.Kind == EventPriceChange
}

// Listing is a single property listing inside a market snapshot. Address is
// the identity key used to match listings across snapshots.
type Listing struct {
	Address     string  `json:"address"`
	Price       float64 `json:"price"`
	PricePerFt2 float64 `json:"price_per_sqft,omitempty"`
	Agent       string  `json:"agent"`
	Type        string  `json:"type,omitempty"`
	Bedrooms    int     `json:"bedrooms,omitempty"`
}

// MarketSnapshot is one day's set of listings for a market area.
type MarketSnapshot struct {
	Area     string    `json:"area"`
	Date     time.Time `json:"date"`
	Listings []Listing `json:"listings"`
}
