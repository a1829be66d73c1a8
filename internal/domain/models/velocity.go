package models

// VelocityClass buckets a composite velocity score.
type VelocityClass string

const (
	VelocityFrozen   VelocityClass = "frozen"
	VelocityLow      VelocityClass = "low"
	VelocityModerate VelocityClass = "moderate"
	VelocityHigh     VelocityClass = "high"
)

// VelocityComponents are the raw component readings behind a velocity score.
type VelocityComponents struct {
	TurnoverRate            float64 `json:"turnover_rate"`
	NewListings             int     `json:"new_listings"`
	CarriedOver             int     `json:"carried_over"`
	ExitedListings          int     `json:"exited_listings"`
	PriceDynamismRate       float64 `json:"price_dynamism_rate"`
	AvgPriceChangeMagnitude float64 `json:"avg_price_change_magnitude"`
	ActiveAgents            int     `json:"active_agents"`
	AgentDiversityScore     float64 `json:"agent_diversity_score"`
	AbsorptionRate          float64 `json:"absorption_rate"`
}

// MomentumDirection classifies the velocity trend vs recent history.
type MomentumDirection string

const (
	MomentumAccelerating MomentumDirection = "accelerating"
	MomentumDecelerating MomentumDirection = "decelerating"
	MomentumStable       MomentumDirection = "stable"
)

// VelocityMomentum compares the current score against recent derived scores.
type VelocityMomentum struct {
	Direction MomentumDirection `json:"direction"`
	Pct       float64           `json:"pct"`
	Avg7Day   float64           `json:"avg_7day"`
	Avg30Day  float64           `json:"avg_30day"`
}

// VelocitySnapshot is the composite liquidity-velocity reading for one
// snapshot pair, always in [0,100].
type VelocitySnapshot struct {
	Score               float64            `json:"score"`
	Class               VelocityClass      `json:"class"`
	MarketHealth        string             `json:"market_health"`
	Interpretation      string             `json:"interpretation"`
	InvestorImplication string             `json:"investor_implication"`
	Components          VelocityComponents `json:"components"`
	Momentum            VelocityMomentum   `json:"momentum"`
}
