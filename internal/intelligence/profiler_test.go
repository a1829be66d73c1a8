package intelligence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Voxmill/internal/domain/models"
)

// followerEvents builds a history matching the momentum_follower template:
// rarely first, responds in about ten days, moves slightly under market.
func followerEvents(n int) []models.BehavioralEvent {
	events := make([]models.BehavioralEvent, 0, n)
	for i := 0; i < n; i++ {
		mag := -3.0
		if i%2 == 1 {
			mag = -3.2
		}
		e := priceEvent("Foxtons", i*7, mag, i == 0, 0.9)
		e.AgentAvgPrice = 1000000
		e.MarketAvgPrice = 1000000
		events = append(events, e)
	}
	for i := 0; i < 4; i++ {
		events = append(events, models.BehavioralEvent{
			AgentID:       "Foxtons",
			Kind:          models.EventResponse,
			Magnitude:     -3,
			DaysToRespond: 10,
		})
	}
	return events
}

func TestClassifyFollower(t *testing.T) {
	p := NewBehavioralProfiler()

	profile, err := p.Classify("Foxtons", followerEvents(10))
	require.NoError(t, err)

	assert.Equal(t, "momentum_follower", profile.PrimaryArchetype)
	assert.Len(t, profile.ArchetypeScores, 8)
	assert.Equal(t, 14, profile.SampleSize)
	assert.InDelta(t, 1.0, profile.ArchetypeScores["momentum_follower"], 0.001)
	assert.Greater(t, profile.PrimaryConfidence, 0.0)
	assert.LessOrEqual(t, profile.PrimaryConfidence, confidenceCeiling)
	assert.NotEmpty(t, profile.SecondaryArchetype, "a close runner-up must surface")
	assert.Greater(t, profile.PredictionReliability, 0.0)
}

func TestClassifySampleSizePenalty(t *testing.T) {
	p := NewBehavioralProfiler()

	small, err := p.Classify("Foxtons", followerEvents(10)[:3])
	require.NoError(t, err)
	large, err := p.Classify("Foxtons", followerEvents(10))
	require.NoError(t, err)

	assert.Less(t, small.PrimaryConfidence, large.PrimaryConfidence,
		"three events must not be as convincing as fourteen")
}

func TestClassifyDeterministic(t *testing.T) {
	p := NewBehavioralProfiler()

	a, err := p.Classify("Foxtons", followerEvents(12))
	require.NoError(t, err)
	b, err := p.Classify("Foxtons", followerEvents(12))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestClassifyInsufficientHistory(t *testing.T) {
	p := NewBehavioralProfiler()
	_, err := p.Classify("Foxtons", followerEvents(2)[:2])
	require.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestPredictResponseBaseline(t *testing.T) {
	p := NewBehavioralProfiler()
	profile, err := p.Classify("Foxtons", followerEvents(10))
	require.NoError(t, err)

	forecast, err := p.PredictResponse(profile, models.MarketScenario{Magnitude: -5, AgentsInvolved: 1})
	require.NoError(t, err)

	assertDistributionSums(t, forecast.Distribution)
	assert.Equal(t, "momentum_follower", forecast.Archetype)
	assert.InDelta(t, -5*profile.Fingerprint.MagnitudeAggressiveness, forecast.ExpectedMagnitude, 0.01)
	assert.LessOrEqual(t, forecast.MagnitudeLow, forecast.ExpectedMagnitude)
	assert.GreaterOrEqual(t, forecast.MagnitudeHigh, forecast.ExpectedMagnitude)
	assert.InDelta(t, profile.Fingerprint.AvgResponseDays, forecast.ExpectedDays, 0.1)
	require.NotEmpty(t, forecast.TimingCurve)

	peak := forecast.TimingCurve[0]
	for _, pt := range forecast.TimingCurve {
		if pt.Likelihood > peak.Likelihood {
			peak = pt
		}
	}
	assert.InDelta(t, forecast.ExpectedDays, float64(peak.Day), 1.0)
}

func TestPredictResponseScenarioAdjustments(t *testing.T) {
	p := NewBehavioralProfiler()
	profile, err := p.Classify("Foxtons", followerEvents(10))
	require.NoError(t, err)

	base, err := p.PredictResponse(profile, models.MarketScenario{Magnitude: -5})
	require.NoError(t, err)

	big, err := p.PredictResponse(profile, models.MarketScenario{Magnitude: -15})
	require.NoError(t, err)
	assertDistributionSums(t, big.Distribution)
	assert.Less(t, big.Distribution[models.ActionNone], base.Distribution[models.ActionNone],
		"a 15% move is harder to ignore than a 5% one")

	stressed, err := p.PredictResponse(profile, models.MarketScenario{Magnitude: -5, MarketStress: true})
	require.NoError(t, err)
	assertDistributionSums(t, stressed.Distribution)
	assert.Greater(t, stressed.Distribution[models.ActionAggressive], base.Distribution[models.ActionAggressive])

	broad, err := p.PredictResponse(profile, models.MarketScenario{Magnitude: -5, AgentsInvolved: 4})
	require.NoError(t, err)
	assertDistributionSums(t, broad.Distribution)
	assert.Less(t, broad.ExpectedDays, base.ExpectedDays, "market-wide moves compress response timing")
}

func TestPredictResponseUnknownArchetype(t *testing.T) {
	p := NewBehavioralProfiler()
	_, err := p.PredictResponse(models.AgentProfile{AgentID: "X", PrimaryArchetype: "day_trader"}, models.MarketScenario{})
	require.Error(t, err)
}

func assertDistributionSums(t *testing.T, dist map[models.ResponseAction]float64) {
	t.Helper()
	total := 0.0
	for _, action := range models.Actions() {
		p := dist[action]
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
		total += p
	}
	assert.InDelta(t, 1.0, total, 0.01)
}
