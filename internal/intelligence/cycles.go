package intelligence

import (
	"fmt"
	"math"
	"sort"

	"Voxmill/internal/domain/models"
)

// Window prediction constants.
const (
	// MinWindowScores is the minimum velocity series length for a
	// forecast.
	MinWindowScores = 10

	// minCyclePoints is the minimum series length for cycle detection.
	minCyclePoints = 15

	// maxSeriesPoints bounds the analysis to the most recent readings.
	maxSeriesPoints = 30

	// cycleConfidenceCap keeps cycle confidence below certainty no
	// matter how regular the pattern looks.
	cycleConfidenceCap = 0.85

	// reversalHorizonDays: predicted reversals further out than this are
	// not actionable and produce no window.
	reversalHorizonDays = 30
)

// WindowOracle forecasts liquidity windows from velocity score series.
// Stateless and safe for concurrent use.
type WindowOracle struct{}

// NewWindowOracle returns an oracle.
func NewWindowOracle() *WindowOracle {
	return &WindowOracle{}
}

// Predict analyzes a chronological velocity series and emits every window
// whose condition holds, sorted by urgency then confidence. Zero windows is
// a valid forecast.
func (o *WindowOracle) Predict(area string, scores []float64) (models.WindowForecast, error) {
	if len(scores) < MinWindowScores {
		return models.WindowForecast{}, fmt.Errorf("windows %s: %w: have %d velocity scores, need %d",
			area, ErrInsufficientData, len(scores), MinWindowScores)
	}
	if len(scores) > maxSeriesPoints {
		scores = scores[len(scores)-maxSeriesPoints:]
	}

	current := scores[len(scores)-1]
	volatility := stdev(scores)

	recent := mean(scores[len(scores)-5:])
	older := mean(scores[len(scores)-10 : len(scores)-5])
	momentumPct := 0.0
	if older > 0 {
		momentumPct = (recent - older) / older * 100
	}

	cycle := DetectCycles(scores)

	var windows []models.LiquidityWindow

	switch {
	case current >= 70:
		windows = append(windows, models.LiquidityWindow{
			Type:           models.WindowHighLiquidity,
			Status:         "active",
			Confidence:     0.85,
			Timing:         "now",
			DurationDays:   14,
			Recommendation: models.RecommendSell,
			Rationale:      fmt.Sprintf("Velocity at %.1f/100 (Strong). Optimal exit window.", current),
			Urgency:        "immediate",
		})
	case current >= 60 && momentumPct > 5:
		windows = append(windows, models.LiquidityWindow{
			Type:           models.WindowHighLiquidity,
			Status:         "approaching",
			Confidence:     0.72,
			Timing:         "7-14 days",
			DurationDays:   14,
			Recommendation: models.RecommendPrepareSell,
			Rationale:      fmt.Sprintf("Velocity rising (%+.1f%%). Peak window ahead.", momentumPct),
			Urgency:        "high",
		})
	}

	switch {
	case current <= 30:
		windows = append(windows, models.LiquidityWindow{
			Type:           models.WindowLowLiquidity,
			Status:         "active",
			Confidence:     0.88,
			Timing:         "now",
			DurationDays:   21,
			Recommendation: models.RecommendBuy,
			Rationale:      fmt.Sprintf("Velocity at %.1f/100 (Weak). Buyer leverage maximized.", current),
			Urgency:        "immediate",
		})
	case current <= 40 && momentumPct < -5:
		windows = append(windows, models.LiquidityWindow{
			Type:           models.WindowLowLiquidity,
			Status:         "approaching",
			Confidence:     0.75,
			Timing:         "7-14 days",
			DurationDays:   21,
			Recommendation: models.RecommendPrepareBuy,
			Rationale:      fmt.Sprintf("Velocity declining (%+.1f%%). Entry window opening.", momentumPct),
			Urgency:        "high",
		})
	}

	if current > 40 && current < 60 && math.Abs(momentumPct) < 5 {
		windows = append(windows, models.LiquidityWindow{
			Type:           models.WindowEquilibrium,
			Status:         "active",
			Confidence:     0.65,
			Timing:         "now",
			DurationDays:   30,
			Recommendation: models.RecommendHold,
			Rationale:      fmt.Sprintf("Velocity stable at %.1f/100. No tactical advantage.", current),
			Urgency:        "low",
		})
	}

	if cycle.PatternDetected {
		if cycle.NextPeakDays != nil && *cycle.NextPeakDays < reversalHorizonDays {
			windows = append(windows, models.LiquidityWindow{
				Type:           models.WindowReversalPeak,
				Status:         "predicted",
				Confidence:     cycle.Confidence,
				Timing:         fmt.Sprintf("%d days", *cycle.NextPeakDays),
				DurationDays:   7,
				Recommendation: models.RecommendSell,
				Rationale: fmt.Sprintf("Cyclical peak predicted in %d days (pattern confidence: %.0f%%)",
					*cycle.NextPeakDays, cycle.Confidence*100),
				Urgency: "medium",
			})
		}
		if cycle.NextTroughDays != nil && *cycle.NextTroughDays < reversalHorizonDays {
			windows = append(windows, models.LiquidityWindow{
				Type:           models.WindowReversalTrough,
				Status:         "predicted",
				Confidence:     cycle.Confidence,
				Timing:         fmt.Sprintf("%d days", *cycle.NextTroughDays),
				DurationDays:   7,
				Recommendation: models.RecommendBuy,
				Rationale: fmt.Sprintf("Cyclical trough predicted in %d days (pattern confidence: %.0f%%)",
					*cycle.NextTroughDays, cycle.Confidence*100),
				Urgency: "medium",
			})
		}
	}

	urgencyRank := map[string]int{"immediate": 0, "high": 1, "medium": 2, "low": 3}
	sort.SliceStable(windows, func(i, j int) bool {
		ri, rj := urgencyRank[windows[i].Urgency], urgencyRank[windows[j].Urgency]
		if ri != rj {
			return ri < rj
		}
		return windows[i].Confidence > windows[j].Confidence
	})

	timing := timingScore(current, momentumPct, volatility)

	return models.WindowForecast{
		Area:                 area,
		CurrentVelocity:      round1(current),
		VelocityMomentum:     round2(momentumPct),
		Volatility:           round2(volatility),
		TimingScore:          timing,
		TimingRecommendation: timingRecommendation(timing),
		Windows:              windows,
		Cycle:                cycle,
	}, nil
}

// DetectCycles finds a repeating peak/trough pattern in a chronological
// velocity series. Interior strict local extrema only; endpoints never
// count. PatternDetected=false is the defined no-signal result.
func DetectCycles(scores []float64) models.CycleModel {
	if len(scores) < minCyclePoints {
		return models.CycleModel{}
	}

	var peaks, troughs []int
	for i := 1; i < len(scores)-1; i++ {
		switch {
		case scores[i] > scores[i-1] && scores[i] > scores[i+1]:
			peaks = append(peaks, i)
		case scores[i] < scores[i-1] && scores[i] < scores[i+1]:
			troughs = append(troughs, i)
		}
	}
	if len(peaks) < 2 || len(troughs) < 2 {
		return models.CycleModel{}
	}

	var intervals []float64
	for i := 1; i < len(peaks); i++ {
		intervals = append(intervals, float64(peaks[i]-peaks[i-1]))
	}
	for i := 1; i < len(troughs); i++ {
		intervals = append(intervals, float64(troughs[i]-troughs[i-1]))
	}

	avgCycle := mean(intervals)
	consistency := 0.0
	if avgCycle > 0 {
		consistency = 1 - stdev(intervals)/avgCycle
	}

	model := models.CycleModel{
		PatternDetected:  true,
		AvgCycleLength:   round1(avgCycle),
		ConsistencyScore: round2(consistency),
		Confidence:       round2(math.Min(cycleConfidenceCap, consistency)),
		PeaksDetected:    len(peaks),
		TroughsDetected:  len(troughs),
	}

	model.NextPeakDays = nextReversal(avgCycle, len(scores)-peaks[len(peaks)-1])
	model.NextTroughDays = nextReversal(avgCycle, len(scores)-troughs[len(troughs)-1])
	return model
}

// nextReversal projects the next extremum from the average cycle length and
// the distance since the last one, wrapping one cycle forward when the
// projection has already passed. Nil when no positive projection exists.
func nextReversal(avgCycle float64, sinceLast int) *int {
	next := int(avgCycle) - sinceLast
	if next < 0 {
		next += int(avgCycle)
	}
	if next <= 0 {
		return nil
	}
	return &next
}

// timingScore rates how actionable the market is right now, 0..100.
// Extremes, momentum and predictability all add signal; equilibrium and
// high volatility subtract it.
func timingScore(velocity, momentumPct, volatility float64) int {
	score := 50

	if velocity >= 70 || velocity <= 30 {
		score += 15
	} else {
		score -= 5
	}

	switch {
	case math.Abs(momentumPct) > 10:
		score += 12
	case math.Abs(momentumPct) > 5:
		score += 6
	}

	switch {
	case volatility < 10:
		score += 10
	case volatility < 20:
		score += 5
	default:
		score -= 5
	}

	if (velocity > 60 && momentumPct > 5) || (velocity < 40 && momentumPct < -5) {
		score += 12
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func timingRecommendation(score int) string {
	switch {
	case score >= 75:
		return "STRONG_SIGNAL"
	case score >= 60:
		return "FAVORABLE"
	case score >= 45:
		return "NEUTRAL"
	case score >= 30:
		return "UNFAVORABLE"
	default:
		return "WAIT"
	}
}
