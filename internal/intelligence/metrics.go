package intelligence

import (
	"fmt"
	"math"

	"Voxmill/internal/domain/models"
)

// Behavioral metric extraction constants. Values preserved from the
// production calibration; see DESIGN.md for the provenance of each.
const (
	// MinAgentEvents is the minimum event history for a fingerprint.
	MinAgentEvents = 3

	// DefaultResponseDays is assumed when an agent has never been
	// observed responding to a competitor.
	DefaultResponseDays = 30.0

	// DefaultMagnitudeRatio is assumed when no market-relative move
	// magnitudes are available (agent moves exactly with the market).
	DefaultMagnitudeRatio = 1.0

	// maxConsistency keeps consistency strictly below 1 for zero-volatility
	// histories so downstream confidence can never saturate.
	maxConsistency = 0.9
)

// ExtractFingerprint converts one agent's ordered event history into the
// fixed-dimension behavioral feature vector. It fails with
// ErrInsufficientHistory below MinAgentEvents.
func ExtractFingerprint(events []models.BehavioralEvent) (models.FeatureVector, error) {
	if len(events) < MinAgentEvents {
		return models.FeatureVector{}, fmt.Errorf("%w: have %d events, need %d",
			ErrInsufficientHistory, len(events), MinAgentEvents)
	}

	var (
		moves          int
		initiations    int
		responseDays   []float64
		ratios         []float64
		premiums       []float64
		moveMagnitudes []float64
	)

	for _, e := range events {
		switch e.Kind {
		case models.EventPriceChange:
			moves++
			if e.FirstMover {
				initiations++
			}
			moveMagnitudes = append(moveMagnitudes, math.Abs(e.Magnitude))
		case models.EventResponse:
			responseDays = append(responseDays, float64(e.DaysToRespond))
		}

		if e.MagnitudeRatio != 0 {
			ratios = append(ratios, e.MagnitudeRatio)
		}
		if e.AgentAvgPrice > 0 && e.MarketAvgPrice > 0 {
			premiums = append(premiums, (e.AgentAvgPrice-e.MarketAvgPrice)/e.MarketAvgPrice*100)
		}
	}

	initiationRate := 0.0
	if moves > 0 {
		initiationRate = float64(initiations) / float64(moves)
	}

	avgResponseDays := DefaultResponseDays
	if len(responseDays) > 0 {
		avgResponseDays = mean(responseDays)
	}

	aggressiveness := DefaultMagnitudeRatio
	if len(ratios) > 0 {
		aggressiveness = mean(ratios)
	}

	volatility := stdev(moveMagnitudes)

	consistency := maxConsistency
	if volatility > 0 {
		consistency = 1 / (1 + volatility)
	}

	return models.FeatureVector{
		InitiationRate:          round3(initiationRate),
		AvgResponseDays:         round2(avgResponseDays),
		MagnitudeAggressiveness: round3(aggressiveness),
		PremiumPositioning:      round2(mean(premiums)),
		Volatility:              round3(volatility),
		Consistency:             round3(consistency),
	}, nil
}
