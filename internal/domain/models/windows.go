package models

// CycleModel describes the cyclical pattern found in a velocity series.
// PatternDetected=false is a defined "no signal" result, not an error.
type CycleModel struct {
	PatternDetected  bool    `json:"pattern_detected"`
	AvgCycleLength   float64 `json:"avg_cycle_length,omitempty"`
	ConsistencyScore float64 `json:"consistency_score,omitempty"`
	Confidence       float64 `json:"confidence,omitempty"`
	PeaksDetected    int     `json:"peaks_detected,omitempty"`
	TroughsDetected  int     `json:"troughs_detected,omitempty"`
	NextPeakDays     *int    `json:"next_peak_days,omitempty"`
	NextTroughDays   *int    `json:"next_trough_days,omitempty"`
}

// Recommendation is the machine-checkable action a window carries.
type Recommendation string

const (
	RecommendSell        Recommendation = "SELL"
	RecommendBuy         Recommendation = "BUY"
	RecommendHold        Recommendation = "HOLD"
	RecommendPrepareSell Recommendation = "PREPARE_SELL"
	RecommendPrepareBuy  Recommendation = "PREPARE_BUY"
)

// WindowType names the kind of liquidity window.
type WindowType string

const (
	WindowHighLiquidity  WindowType = "high_liquidity"
	WindowLowLiquidity   WindowType = "low_liquidity"
	WindowEquilibrium    WindowType = "equilibrium"
	WindowReversalPeak   WindowType = "reversal_peak"
	WindowReversalTrough WindowType = "reversal_trough"
)

// LiquidityWindow is one forecasted time interval favorable for action.
type LiquidityWindow struct {
	Type           WindowType     `json:"type"`
	Status         string         `json:"status"` // active, approaching, predicted
	Confidence     float64        `json:"confidence"`
	Timing         string         `json:"timing"`
	DurationDays   int            `json:"duration_days"`
	Recommendation Recommendation `json:"recommendation"`
	Rationale      string         `json:"rationale"`
	Urgency        string         `json:"urgency"` // immediate, high, medium, low
}

// WindowForecast is the full liquidity-window prediction for one area.
type WindowForecast struct {
	Area                 string            `json:"area"`
	CurrentVelocity      float64           `json:"current_velocity"`
	VelocityMomentum     float64           `json:"velocity_momentum"`
	Volatility           float64           `json:"volatility"`
	TimingScore          int               `json:"timing_score"`
	TimingRecommendation string            `json:"timing_recommendation"`
	Windows              []LiquidityWindow `json:"predicted_windows"`
	Cycle                CycleModel        `json:"cycle_analysis"`
}
