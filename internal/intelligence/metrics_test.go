package intelligence

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Voxmill/internal/domain/models"
)

func priceEvent(agent string, day int, magnitude float64, firstMover bool, ratio float64) models.BehavioralEvent {
	return models.BehavioralEvent{
		AgentID:        agent,
		Area:           "Mayfair",
		Timestamp:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day),
		Kind:           models.EventPriceChange,
		Magnitude:      magnitude,
		FirstMover:     firstMover,
		MagnitudeRatio: ratio,
		AgentAvgPrice:  1050000,
		MarketAvgPrice: 1000000,
	}
}

func TestExtractFingerprintInsufficientHistory(t *testing.T) {
	_, err := ExtractFingerprint([]models.BehavioralEvent{
		priceEvent("Savills", 0, -4, true, 1.2),
		priceEvent("Savills", 7, -6, false, 1.0),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientHistory))
}

func TestExtractFingerprint(t *testing.T) {
	events := []models.BehavioralEvent{
		priceEvent("Savills", 0, -4, true, 1.2),
		priceEvent("Savills", 10, -6, true, 1.0),
		priceEvent("Savills", 20, -5, false, 0.8),
	}

	fp, err := ExtractFingerprint(events)
	require.NoError(t, err)

	assert.InDelta(t, 0.667, fp.InitiationRate, 0.001)
	assert.InDelta(t, DefaultResponseDays, fp.AvgResponseDays, 0.001, "no response events observed")
	assert.InDelta(t, 1.0, fp.MagnitudeAggressiveness, 0.001)
	assert.InDelta(t, 5.0, fp.PremiumPositioning, 0.01)
	assert.InDelta(t, 1.0, fp.Volatility, 0.001)
	assert.InDelta(t, 0.5, fp.Consistency, 0.001)
}

func TestExtractFingerprintResponseDays(t *testing.T) {
	events := []models.BehavioralEvent{
		priceEvent("KnightFrank", 0, -3, false, 1.0),
		priceEvent("KnightFrank", 30, -3, false, 1.0),
		{
			AgentID:       "KnightFrank",
			Timestamp:     time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			Kind:          models.EventResponse,
			Magnitude:     -3,
			DaysToRespond: 6,
		},
		{
			AgentID:       "KnightFrank",
			Timestamp:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Kind:          models.EventResponse,
			Magnitude:     -2.5,
			DaysToRespond: 10,
		},
	}

	fp, err := ExtractFingerprint(events)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, fp.AvgResponseDays, 0.001)
	assert.Zero(t, fp.InitiationRate, "agent never moved first")
}

func TestExtractFingerprintPureInitiator(t *testing.T) {
	events := []models.BehavioralEvent{
		priceEvent("Strutt", 0, -4, true, 0),
		priceEvent("Strutt", 14, -6, true, 0),
		{
			AgentID:       "Strutt",
			Timestamp:     time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			Kind:          models.EventResponse,
			Magnitude:     -5,
			DaysToRespond: 5,
		},
	}

	fp, err := ExtractFingerprint(events)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, fp.InitiationRate, 0.001, "both recorded moves were first")
	assert.InDelta(t, 5.0, fp.AvgResponseDays, 0.001)
	assert.InDelta(t, 1.414, fp.Volatility, 0.001)
	assert.InDelta(t, 0.414, fp.Consistency, 0.001, "similar magnitudes keep consistency up")
}

func TestExtractFingerprintZeroVolatilityCeiling(t *testing.T) {
	events := []models.BehavioralEvent{
		priceEvent("Chestertons", 0, -5, true, 1.0),
		priceEvent("Chestertons", 10, -5, true, 1.0),
		priceEvent("Chestertons", 20, -5, true, 1.0),
	}

	fp, err := ExtractFingerprint(events)
	require.NoError(t, err)
	assert.Zero(t, fp.Volatility)
	assert.InDelta(t, 0.9, fp.Consistency, 0.001, "identical magnitudes must not yield perfect consistency")
}
