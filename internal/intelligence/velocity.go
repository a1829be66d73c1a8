package intelligence

import (
	"fmt"
	"math"

	"Voxmill/internal/domain/models"
)

// Velocity scoring constants. Component weights sum to 1.
const (
	weightTurnover   = 0.35
	weightDynamism   = 0.25
	weightAgents     = 0.20
	weightDiversity  = 0.10
	weightAbsorption = 0.10

	// fullParticipationAgents caps the agent-activity component.
	fullParticipationAgents = 15

	// repriceNoiseFloor: price deltas at or under 1% are listing noise,
	// not repricing.
	repriceNoiseFloor = 0.01

	// MinVelocitySnapshots is the minimum snapshot count for a reading.
	MinVelocitySnapshots = 2

	// minCurrentListings guards against scoring near-empty snapshots.
	minCurrentListings = 3

	momentumBandHigh = 1.1
	momentumBandLow  = 0.9
)

// privateAgent marks listings with no identifiable agent. They count toward
// turnover but not toward agent activity or diversity.
const privateAgent = "Private"

// FlowMeter computes composite liquidity-velocity scores from market
// snapshots. Stateless and safe for concurrent use.
type FlowMeter struct{}

// NewFlowMeter returns a meter.
func NewFlowMeter() *FlowMeter {
	return &FlowMeter{}
}

// Compute scores the newest snapshot pair and classifies the result.
// Snapshots are newest first. Momentum compares the current score against
// the average of up to seven preceding pair scores.
func (m *FlowMeter) Compute(snapshots []models.MarketSnapshot) (models.VelocitySnapshot, error) {
	if len(snapshots) < MinVelocitySnapshots {
		return models.VelocitySnapshot{}, fmt.Errorf("velocity: %w: have %d snapshots, need %d",
			ErrInsufficientData, len(snapshots), MinVelocitySnapshots)
	}
	current, previous := snapshots[0], snapshots[1]
	if len(current.Listings) < minCurrentListings {
		return models.VelocitySnapshot{}, fmt.Errorf("velocity: %w: have %d current listings, need %d",
			ErrInsufficientData, len(current.Listings), minCurrentListings)
	}

	score, components := pairScore(previous, current)

	snap := models.VelocitySnapshot{
		Score:      round1(score),
		Components: components,
	}
	snap.Class, snap.MarketHealth, snap.Interpretation, snap.InvestorImplication = classifyVelocity(score)

	history := m.historyScores(snapshots)
	snap.Momentum = momentum(score, history)
	return snap, nil
}

// Series derives a score for every consecutive snapshot pair, oldest pair
// first, for trend and cycle analysis.
func (m *FlowMeter) Series(snapshots []models.MarketSnapshot) ([]float64, error) {
	if len(snapshots) < MinVelocitySnapshots {
		return nil, fmt.Errorf("velocity series: %w: have %d snapshots, need %d",
			ErrInsufficientData, len(snapshots), MinVelocitySnapshots)
	}
	// Input is newest first; walk from the oldest pair forward.
	scores := make([]float64, 0, len(snapshots)-1)
	for i := len(snapshots) - 1; i >= 1; i-- {
		score, _ := pairScore(snapshots[i], snapshots[i-1])
		scores = append(scores, round1(score))
	}
	return scores, nil
}

// historyScores computes pair scores preceding the newest pair, most recent
// first.
func (m *FlowMeter) historyScores(snapshots []models.MarketSnapshot) []float64 {
	scores := make([]float64, 0, len(snapshots)-2)
	for i := 1; i < len(snapshots)-1; i++ {
		score, _ := pairScore(snapshots[i+1], snapshots[i])
		scores = append(scores, score)
	}
	return scores
}

func pairScore(previous, current models.MarketSnapshot) (float64, models.VelocityComponents) {
	currentByAddr := make(map[string]models.Listing, len(current.Listings))
	for _, l := range current.Listings {
		if l.Address != "" {
			currentByAddr[l.Address] = l
		}
	}
	previousByAddr := make(map[string]models.Listing, len(previous.Listings))
	for _, l := range previous.Listings {
		if l.Address != "" {
			previousByAddr[l.Address] = l
		}
	}

	var newListings, carriedOver, exited int
	for addr := range currentByAddr {
		if _, ok := previousByAddr[addr]; ok {
			carriedOver++
		} else {
			newListings++
		}
	}
	for addr := range previousByAddr {
		if _, ok := currentByAddr[addr]; !ok {
			exited++
		}
	}

	total := len(current.Listings)
	turnover := 0.0
	if total > 0 {
		turnover = float64(newListings) / float64(total) * 100
	}

	var priceChanges int
	var changeMagnitudes []float64
	for addr, cur := range currentByAddr {
		prev, ok := previousByAddr[addr]
		if !ok || cur.Price <= 0 || prev.Price <= 0 {
			continue
		}
		if math.Abs(cur.Price-prev.Price) > prev.Price*repriceNoiseFloor {
			priceChanges++
			changeMagnitudes = append(changeMagnitudes, math.Abs((cur.Price-prev.Price)/prev.Price)*100)
		}
	}
	dynamism := 0.0
	if total > 0 {
		dynamism = float64(priceChanges) / float64(total) * 100
	}

	agentCounts := make(map[string]int)
	nonPrivate := 0
	for _, l := range current.Listings {
		if l.Agent == "" || l.Agent == privateAgent {
			continue
		}
		agentCounts[l.Agent]++
		nonPrivate++
	}
	diversity := 0.0
	if nonPrivate > 0 {
		maxCount := 0
		for _, c := range agentCounts {
			if c > maxCount {
				maxCount = c
			}
		}
		diversity = (1 - float64(maxCount)/float64(nonPrivate)) * 100
	}

	absorption := 0.0
	if len(previousByAddr) > 0 {
		absorption = float64(exited) / float64(len(previousByAddr)) * 100
	}

	score := turnover*weightTurnover +
		dynamism*weightDynamism +
		math.Min(float64(len(agentCounts))/fullParticipationAgents, 1)*weightAgents*100 +
		diversity*weightDiversity +
		absorption*weightAbsorption
	score = clamp(score, 0, 100)

	return score, models.VelocityComponents{
		TurnoverRate:            round1(turnover),
		NewListings:             newListings,
		CarriedOver:             carriedOver,
		ExitedListings:          exited,
		PriceDynamismRate:       round1(dynamism),
		AvgPriceChangeMagnitude: round1(mean(changeMagnitudes)),
		ActiveAgents:            len(agentCounts),
		AgentDiversityScore:     round1(diversity),
		AbsorptionRate:          round1(absorption),
	}
}

func classifyVelocity(score float64) (models.VelocityClass, string, string, string) {
	switch {
	case score >= 65:
		return models.VelocityHigh, "strong",
			"Capital rotating rapidly. High liquidity, fast absorption, dynamic pricing.",
			"Favorable entry/exit conditions. Low transaction friction."
	case score >= 40:
		return models.VelocityModerate, "stable",
			"Balanced capital flow. Steady absorption, moderate pricing adjustments.",
			"Normal transaction environment. Standard due diligence timelines."
	case score >= 20:
		return models.VelocityLow, "cooling",
			"Capital stagnation emerging. Slow turnover, limited price discovery.",
			"Extended holding periods likely. Negotiate aggressively on price."
	default:
		return models.VelocityFrozen, "stressed",
			"Market seizing. Minimal inventory movement, price rigidity.",
			"Distress opportunities possible. Extreme buyer leverage."
	}
}

// momentum compares the current score against the trailing pair-score
// averages. history is most recent first.
func momentum(score float64, history []float64) models.VelocityMomentum {
	avg7 := score
	if len(history) > 0 {
		n := len(history)
		if n > 7 {
			n = 7
		}
		avg7 = mean(history[:n])
	}
	avg30 := score
	if len(history) > 0 {
		n := len(history)
		if n > 30 {
			n = 30
		}
		avg30 = mean(history[:n])
	}

	mom := models.VelocityMomentum{
		Direction: models.MomentumStable,
		Avg7Day:   round1(avg7),
		Avg30Day:  round1(avg30),
	}
	if avg7 <= 0 {
		return mom
	}
	switch {
	case score > avg7*momentumBandHigh:
		mom.Direction = models.MomentumAccelerating
		mom.Pct = round1((score - avg7) / avg7 * 100)
	case score < avg7*momentumBandLow:
		mom.Direction = models.MomentumDecelerating
		mom.Pct = round1((avg7 - score) / avg7 * 100)
	}
	return mom
}
