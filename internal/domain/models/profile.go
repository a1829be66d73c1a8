package models

// FeatureVector is the numeric behavioral fingerprint of one agent, derived
// from at least three behavioral events.
type FeatureVector struct {
	InitiationRate          float64 `json:"initiation_rate"`          // 0..1
	AvgResponseDays         float64 `json:"avg_response_days"`        // >= 0
	MagnitudeAggressiveness float64 `json:"magnitude_aggressiveness"` // ratio vs market, 1.0 = matches market
	PremiumPositioning      float64 `json:"premium_positioning"`      // % vs market average
	Volatility              float64 `json:"volatility"`               // stdev of absolute move magnitudes
	Consistency             float64 `json:"consistency"`              // 0..1, near-1 ceiling
}

// AgentProfile is the output of archetype classification for one agent.
type AgentProfile struct {
	AgentID               string             `json:"agent_id"`
	Area                  string             `json:"area,omitempty"`
	PrimaryArchetype      string             `json:"primary_archetype"`
	PrimaryConfidence     float64            `json:"primary_confidence"`
	SecondaryArchetype    string             `json:"secondary_archetype,omitempty"`
	ArchetypeScores       map[string]float64 `json:"archetype_scores"`
	Fingerprint           FeatureVector      `json:"fingerprint"`
	PredictionReliability float64            `json:"prediction_reliability"`
	ConfidenceInterval    float64            `json:"confidence_interval"`
	SampleSize            int                `json:"sample_size"`
}

// ResponseAction is one of the four ways an agent can react to a market move.
type ResponseAction string

const (
	ActionNone       ResponseAction = "no_action"
	ActionMinimal    ResponseAction = "minimal_response"
	ActionMatch      ResponseAction = "match_market"
	ActionAggressive ResponseAction = "aggressive_response"
)

// Actions lists all response actions in canonical order.
func Actions() []ResponseAction {
	return []ResponseAction{ActionNone, ActionMinimal, ActionMatch, ActionAggressive}
}

// MarketScenario describes the market context a response is predicted under.
type MarketScenario struct {
	Magnitude      float64 `json:"magnitude"`       // signed % of the triggering move
	AgentsInvolved int     `json:"agents_involved"` // agents that already moved
	MarketStress   bool    `json:"market_stress"`
}

// TimingPoint is one point on a response timing likelihood curve.
type TimingPoint struct {
	Day        int     `json:"day"`
	Likelihood float64 `json:"likelihood"`
}

// ResponseForecast is the predicted reaction of one profiled agent under a
// given scenario: a distribution over actions plus magnitude and timing
// estimates with uncertainty bounds.
type ResponseForecast struct {
	AgentID           string                     `json:"agent_id"`
	Archetype         string                     `json:"archetype"`
	Distribution      map[ResponseAction]float64 `json:"distribution"`
	ExpectedMagnitude float64                    `json:"expected_magnitude"`
	MagnitudeLow      float64                    `json:"magnitude_low"`
	MagnitudeHigh     float64                    `json:"magnitude_high"`
	ExpectedDays      float64                    `json:"expected_days"`
	TimingCurve       []TimingPoint              `json:"timing_curve"`
}
