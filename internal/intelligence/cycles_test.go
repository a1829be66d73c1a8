package intelligence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Voxmill/internal/domain/models"
)

// wavySeries oscillates with a fixed period: peaks every `period` points.
func wavySeries(n, period int) []float64 {
	scores := make([]float64, n)
	for i := range scores {
		phase := i % period
		if phase < period/2 {
			scores[i] = 40 + float64(phase)*10
		} else {
			scores[i] = 40 + float64(period-phase)*10
		}
	}
	return scores
}

func TestDetectCyclesTooShort(t *testing.T) {
	cycle := DetectCycles(wavySeries(14, 6))
	assert.False(t, cycle.PatternDetected)
}

func TestDetectCyclesMinimumLength(t *testing.T) {
	series := wavySeries(15, 6)
	assert.False(t, DetectCycles(series[:14]).PatternDetected, "one point short of the gate")

	cycle := DetectCycles(series)
	assert.True(t, cycle.PatternDetected, "two full swings inside fifteen points")
}

func TestDetectCyclesSingleSwing(t *testing.T) {
	// Long enough, but the shape holds only one peak and one trough.
	scores := []float64{40, 50, 60, 70, 60, 50, 40, 30, 20, 10, 20, 30, 40, 50, 60, 70}
	cycle := DetectCycles(scores)
	assert.False(t, cycle.PatternDetected)
}

func TestDetectCyclesNoExtrema(t *testing.T) {
	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = float64(30 + i) // monotonic, no interior extrema
	}
	cycle := DetectCycles(flat)
	assert.False(t, cycle.PatternDetected)
}

func TestDetectCyclesRegularPattern(t *testing.T) {
	cycle := DetectCycles(wavySeries(24, 6))
	require.True(t, cycle.PatternDetected)

	assert.InDelta(t, 6.0, cycle.AvgCycleLength, 0.01, "period fixed at six points")
	assert.InDelta(t, 1.0, cycle.ConsistencyScore, 0.01)
	assert.InDelta(t, cycleConfidenceCap, cycle.Confidence, 0.01, "confidence is capped below certainty")
	assert.GreaterOrEqual(t, cycle.PeaksDetected, 2)
	assert.GreaterOrEqual(t, cycle.TroughsDetected, 2)

	if cycle.NextPeakDays != nil {
		assert.Greater(t, *cycle.NextPeakDays, 0)
		assert.LessOrEqual(t, *cycle.NextPeakDays, 6)
	}
}

func TestPredictWindowsInsufficientData(t *testing.T) {
	o := NewWindowOracle()
	_, err := o.Predict("Mayfair", []float64{50, 50, 50})
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestPredictWindowsMinimumSeries(t *testing.T) {
	o := NewWindowOracle()

	nine := make([]float64, 9)
	for i := range nine {
		nine[i] = 50
	}
	_, err := o.Predict("Mayfair", nine)
	require.ErrorIs(t, err, ErrInsufficientData, "nine readings is one short of the gate")

	flat := append(nine, 50)
	forecast, err := o.Predict("Mayfair", flat)
	require.NoError(t, err)

	assert.Zero(t, forecast.VelocityMomentum)
	assert.False(t, forecast.Cycle.PatternDetected, "identical readings have no extrema")
	require.Len(t, forecast.Windows, 1)
	assert.Equal(t, models.WindowEquilibrium, forecast.Windows[0].Type)
}

func TestPredictWindowsHighLiquidity(t *testing.T) {
	o := NewWindowOracle()

	scores := []float64{60, 62, 64, 66, 68, 70, 72, 74, 76, 78}
	forecast, err := o.Predict("Mayfair", scores)
	require.NoError(t, err)

	require.NotEmpty(t, forecast.Windows)
	w := forecast.Windows[0]
	assert.Equal(t, models.WindowHighLiquidity, w.Type)
	assert.Equal(t, "active", w.Status)
	assert.Equal(t, models.RecommendSell, w.Recommendation)
	assert.Equal(t, "immediate", w.Urgency)
	assert.Equal(t, 14, w.DurationDays)
	assert.InDelta(t, 78.0, forecast.CurrentVelocity, 0.01)
	assert.Greater(t, forecast.VelocityMomentum, 5.0)
}

func TestPredictWindowsLowLiquidity(t *testing.T) {
	o := NewWindowOracle()

	scores := []float64{45, 43, 41, 39, 37, 35, 33, 31, 29, 27}
	forecast, err := o.Predict("Mayfair", scores)
	require.NoError(t, err)

	require.NotEmpty(t, forecast.Windows)
	w := forecast.Windows[0]
	assert.Equal(t, models.WindowLowLiquidity, w.Type)
	assert.Equal(t, models.RecommendBuy, w.Recommendation)
	assert.Equal(t, 21, w.DurationDays)
}

func TestPredictWindowsEquilibrium(t *testing.T) {
	o := NewWindowOracle()

	scores := []float64{50, 51, 49, 50, 51, 49, 50, 51, 49, 50}
	forecast, err := o.Predict("Mayfair", scores)
	require.NoError(t, err)

	require.NotEmpty(t, forecast.Windows)
	w := forecast.Windows[0]
	assert.Equal(t, models.WindowEquilibrium, w.Type)
	assert.Equal(t, models.RecommendHold, w.Recommendation)
	assert.Equal(t, "low", w.Urgency)
}

func TestPredictWindowsUrgencyOrdering(t *testing.T) {
	o := NewWindowOracle()

	// Long oscillating series with a high current reading: both an active
	// high-liquidity window and predicted reversals can coexist.
	scores := append(wavySeries(24, 6), 72)
	forecast, err := o.Predict("Mayfair", scores)
	require.NoError(t, err)

	rank := map[string]int{"immediate": 0, "high": 1, "medium": 2, "low": 3}
	for i := 1; i < len(forecast.Windows); i++ {
		assert.LessOrEqual(t, rank[forecast.Windows[i-1].Urgency], rank[forecast.Windows[i].Urgency],
			"windows must sort by urgency")
	}
}

func TestTimingScore(t *testing.T) {
	// Velocity extreme, strong momentum, low volatility, clear direction.
	assert.Equal(t, 99, timingScore(75, 12, 5))

	// Equilibrium, flat, noisy.
	assert.Equal(t, 40, timingScore(50, 0, 25))
}

func TestTimingRecommendationLadder(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{80, "STRONG_SIGNAL"},
		{75, "STRONG_SIGNAL"},
		{60, "FAVORABLE"},
		{45, "NEUTRAL"},
		{30, "UNFAVORABLE"},
		{29, "WAIT"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, timingRecommendation(tc.score), "score=%d", tc.score)
	}
}
