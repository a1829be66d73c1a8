package intelligence

import (
	"fmt"
	"math"
	"sort"

	"Voxmill/internal/domain/models"
)

// Cascade propagation constants. Later waves demand less edge evidence but
// carry discounted probabilities and wider confidence bands.
const (
	wave1Threshold = 0.40
	wave2Threshold = 0.35
	wave3Threshold = 0.30

	wave2Discount = 0.85
	wave3Discount = 0.70

	// stressMultiplier amplifies first-wave response probabilities when
	// the scenario declares market stress.
	stressMultiplier = 1.2

	// maxWave3Sources caps third-wave branching to the strongest
	// second-wave responders.
	maxWave3Sources = 3

	// timingSpreadDays widens each agent's expected timing into a band.
	timingSpreadDays = 2.0

	probabilityCap = 0.99
)

// ChainSimulator predicts multi-wave price cascades over an influence
// network. Pure and deterministic: identical inputs always yield an
// identical prediction.
type ChainSimulator struct{}

// NewChainSimulator returns a simulator.
func NewChainSimulator() *ChainSimulator {
	return &ChainSimulator{}
}

// Predict walks up to three response waves outward from the initiating
// agent. An agent appears in at most one wave, attributed to the first
// parent that reaches it in deterministic traversal order.
func (s *ChainSimulator) Predict(network *models.InfluenceNetwork, initiatingAgent string, initialMagnitude float64, scenario *models.MarketScenario) (models.CascadePrediction, error) {
	if !network.HasAgent(initiatingAgent) {
		return models.CascadePrediction{}, fmt.Errorf("cascade %s/%s: %w",
			network.Area, initiatingAgent, ErrAgentNotFound)
	}

	stressed := scenario != nil && scenario.MarketStress

	affected := map[string]bool{initiatingAgent: true}
	pred := models.CascadePrediction{
		Area:             network.Area,
		InitiatingAgent:  initiatingAgent,
		InitialMagnitude: initialMagnitude,
	}

	// Wave 1: direct responders to the initiator.
	var wave1 []models.WaveAgent
	for _, edge := range network.OutgoingEdges(initiatingAgent) {
		prob := edge.ResponseProbability
		if stressed {
			prob = math.Min(prob*stressMultiplier, probabilityCap)
		}
		if prob < wave1Threshold || affected[edge.To] {
			continue
		}
		affected[edge.To] = true
		wave1 = append(wave1, waveAgent(edge, initiatingAgent, prob, initialMagnitude, 0, 1))
	}
	if len(wave1) == 0 {
		pred.MarketImpact = models.ImpactMinimal
		return pred, nil
	}
	pred.Waves = append(pred.Waves, models.Wave{Number: 1, Agents: wave1})

	// Wave 2: responders to the first wave, probabilities discounted.
	var wave2 []models.WaveAgent
	for _, parent := range wave1 {
		for _, edge := range network.OutgoingEdges(parent.AgentID) {
			if edge.ResponseProbability < wave2Threshold || affected[edge.To] {
				continue
			}
			affected[edge.To] = true
			prob := edge.ResponseProbability * wave2Discount
			wave2 = append(wave2, waveAgent(edge, parent.AgentID, prob, parent.PredictedMagnitude, parent.TimingDays, 2))
		}
	}
	if len(wave2) > 0 {
		pred.Waves = append(pred.Waves, models.Wave{Number: 2, Agents: wave2})
	}

	// Wave 3: only when the second wave is broad enough to sustain
	// propagation, branching from its strongest responders.
	if len(wave2) >= 2 {
		sources := append([]models.WaveAgent(nil), wave2...)
		sort.Slice(sources, func(i, j int) bool {
			if sources[i].Probability != sources[j].Probability {
				return sources[i].Probability > sources[j].Probability
			}
			return sources[i].AgentID < sources[j].AgentID
		})
		if len(sources) > maxWave3Sources {
			sources = sources[:maxWave3Sources]
		}

		var wave3 []models.WaveAgent
		for _, parent := range sources {
			for _, edge := range network.OutgoingEdges(parent.AgentID) {
				if edge.ResponseProbability < wave3Threshold || affected[edge.To] {
					continue
				}
				affected[edge.To] = true
				prob := edge.ResponseProbability * wave3Discount
				wave3 = append(wave3, waveAgent(edge, parent.AgentID, prob, parent.PredictedMagnitude, parent.TimingDays, 3))
			}
		}
		if len(wave3) > 0 {
			pred.Waves = append(pred.Waves, models.Wave{Number: 3, Agents: wave3})
		}
	}

	probs := make([]float64, 0, len(wave1))
	maxTiming := 0.0
	total := 0
	for _, w := range pred.Waves {
		total += len(w.Agents)
		for _, a := range w.Agents {
			if a.TimingMax > maxTiming {
				maxTiming = a.TimingMax
			}
		}
	}
	for _, a := range wave1 {
		probs = append(probs, a.Probability)
	}

	pred.CascadeProbability = round3(mean(probs))
	pred.TotalAffectedAgents = total
	pred.ExpectedDurationDays = int(math.Ceil(maxTiming))
	pred.MarketImpact = classifyImpact(float64(total)/float64(len(network.Nodes)), pred.CascadeProbability)
	return pred, nil
}

func waveAgent(edge *models.InfluenceEdge, trigger string, prob, parentMagnitude, parentTiming float64, wave int) models.WaveAgent {
	discount := 1.0
	switch wave {
	case 2:
		discount = wave2Discount
	case 3:
		discount = wave3Discount
	}

	timing := parentTiming + edge.AvgResponseDays
	return models.WaveAgent{
		AgentID:            edge.To,
		Probability:        round3(prob),
		PredictedMagnitude: round2(parentMagnitude * edge.AvgMagnitudeRatio),
		TimingDays:         round1(timing),
		TimingMin:          round1(math.Max(timing-timingSpreadDays, 0)),
		TimingMax:          round1(timing + timingSpreadDays),
		Trigger:            trigger,
		ConfidenceBand:     round3(prob*(1-discount) + 0.05),
	}
}

// classifyImpact maps the affected share of the market and the cascade
// probability onto the 4-level impact scale. Either dimension alone can
// escalate severity.
func classifyImpact(affectedFraction, cascadeProb float64) models.MarketImpact {
	switch {
	case affectedFraction >= 0.6 || cascadeProb >= 0.75:
		return models.ImpactSevere
	case affectedFraction >= 0.4 || cascadeProb >= 0.6:
		return models.ImpactMajor
	case affectedFraction >= 0.2 || cascadeProb >= 0.4:
		return models.ImpactModerate
	default:
		return models.ImpactMinimal
	}
}
