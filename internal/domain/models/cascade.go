package models

// MarketImpact is the 4-level ordinal severity of a predicted cascade.
type MarketImpact string

const (
	ImpactMinimal  MarketImpact = "minimal"
	ImpactModerate MarketImpact = "moderate"
	ImpactMajor    MarketImpact = "major"
	ImpactSevere   MarketImpact = "severe"
)

// WaveAgent is one agent predicted to react inside a cascade wave.
type WaveAgent struct {
	AgentID            string  `json:"agent"`
	Probability        float64 `json:"probability"`
	PredictedMagnitude float64 `json:"predicted_magnitude"`
	TimingDays         float64 `json:"timing_days"`
	TimingMin          float64 `json:"timing_min"`
	TimingMax          float64 `json:"timing_max"`
	Trigger            string  `json:"trigger"`
	ConfidenceBand     float64 `json:"confidence_band"`
}

// Wave is one generation of cascade propagation.
type Wave struct {
	Number int         `json:"wave_number"`
	Agents []WaveAgent `json:"agents"`
}

// CascadePrediction is the full predicted chain reaction following one
// agent's initial price move. Output is deterministic: the same network and
// arguments always produce the same prediction, so the struct carries no
// generation timestamp or random identifier.
type CascadePrediction struct {
	Area                 string       `json:"area"`
	InitiatingAgent      string       `json:"initiating_agent"`
	InitialMagnitude     float64      `json:"initial_magnitude"`
	Waves                []Wave       `json:"waves"`
	CascadeProbability   float64      `json:"cascade_probability"`
	TotalAffectedAgents  int          `json:"total_affected_agents"`
	ExpectedDurationDays int          `json:"expected_duration_days"`
	MarketImpact         MarketImpact `json:"market_impact"`
}
