package intelligence

import (
	"fmt"
	"math"
	"sort"

	"Voxmill/internal/domain/models"
)

// Classification and response-prediction constants.
const (
	secondaryFitThreshold = 0.4
	confidenceCeiling     = 0.99

	// fullConfidenceSample is the event count at which sample size stops
	// penalizing classification confidence.
	fullConfidenceSample = 10

	// largeMoveThreshold is the absolute scenario magnitude above which
	// sitting out becomes markedly less likely.
	largeMoveThreshold = 10.0

	// broadMoveAgents is the number of already-moved agents at which the
	// move reads as market-wide rather than idiosyncratic.
	broadMoveAgents = 3
)

// BehavioralProfiler classifies agents against the archetype catalog and
// predicts their responses. Stateless and safe for concurrent use.
type BehavioralProfiler struct {
	catalog []Archetype
}

// NewBehavioralProfiler builds a profiler over the standard catalog.
func NewBehavioralProfiler() *BehavioralProfiler {
	return &BehavioralProfiler{catalog: Catalog()}
}

// Classify extracts the agent's fingerprint and scores it against every
// archetype. Ties and orderings are deterministic: equal fits resolve by
// archetype name.
func (p *BehavioralProfiler) Classify(agentID string, events []models.BehavioralEvent) (models.AgentProfile, error) {
	fp, err := ExtractFingerprint(events)
	if err != nil {
		return models.AgentProfile{}, fmt.Errorf("classify %s: %w", agentID, err)
	}

	type scored struct {
		arch Archetype
		fit  float64
	}
	scores := make([]scored, 0, len(p.catalog))
	scoreMap := make(map[string]float64, len(p.catalog))
	for _, a := range p.catalog {
		f := round3(a.Fit(fp))
		scores = append(scores, scored{arch: a, fit: f})
		scoreMap[a.Name] = f
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].fit != scores[j].fit {
			return scores[i].fit > scores[j].fit
		}
		return scores[i].arch.Name < scores[j].arch.Name
	})

	best, second := scores[0], scores[1]

	sampleFactor := math.Min(float64(len(events))/fullConfidenceSample, 1)
	confidence := math.Min(0.5+0.5*(best.fit-second.fit), confidenceCeiling) * sampleFactor

	profile := models.AgentProfile{
		AgentID:               agentID,
		PrimaryArchetype:      best.arch.Name,
		PrimaryConfidence:     round3(confidence),
		ArchetypeScores:       scoreMap,
		Fingerprint:           fp,
		PredictionReliability: round3(best.arch.Reliability * fp.Consistency),
		ConfidenceInterval:    round3(0.5 / math.Sqrt(float64(len(events)))),
		SampleSize:            len(events),
	}
	if second.fit > secondaryFitThreshold {
		profile.SecondaryArchetype = second.arch.Name
	}
	return profile, nil
}

// PredictResponse produces an action distribution, magnitude estimate and
// timing curve for the profiled agent under the scenario. The distribution
// always sums to 1 within rounding.
func (p *BehavioralProfiler) PredictResponse(profile models.AgentProfile, scenario models.MarketScenario) (models.ResponseForecast, error) {
	arch, ok := ArchetypeByName(profile.PrimaryArchetype)
	if !ok {
		return models.ResponseForecast{}, fmt.Errorf("unknown archetype %q for agent %s", profile.PrimaryArchetype, profile.AgentID)
	}

	dist := make(map[models.ResponseAction]float64, len(arch.BaseDistribution))
	for action, prob := range arch.BaseDistribution {
		dist[action] = prob
	}

	// Large moves are hard to ignore: shrink no_action and spread the
	// removed mass evenly over the active responses.
	if math.Abs(scenario.Magnitude) > largeMoveThreshold {
		removed := dist[models.ActionNone] * 0.4
		dist[models.ActionNone] -= removed
		share := removed / 3
		dist[models.ActionMinimal] += share
		dist[models.ActionMatch] += share
		dist[models.ActionAggressive] += share
	}
	if scenario.AgentsInvolved >= broadMoveAgents {
		dist[models.ActionMatch] *= 1.3
		dist[models.ActionNone] *= 0.7
	}
	if scenario.MarketStress {
		dist[models.ActionAggressive] *= 1.4
		dist[models.ActionNone] *= 0.5
	}
	normalize(dist)

	estMag := scenario.Magnitude * profile.Fingerprint.MagnitudeAggressiveness
	halfWidth := (1 - profile.Fingerprint.Consistency) * math.Abs(estMag) * 0.5

	days := profile.Fingerprint.AvgResponseDays
	if scenario.AgentsInvolved >= broadMoveAgents {
		days *= 0.8
	}

	return models.ResponseForecast{
		AgentID:           profile.AgentID,
		Archetype:         profile.PrimaryArchetype,
		Distribution:      roundDistribution(dist),
		ExpectedMagnitude: round2(estMag),
		MagnitudeLow:      round2(estMag - halfWidth),
		MagnitudeHigh:     round2(estMag + halfWidth),
		ExpectedDays:      round1(days),
		TimingCurve:       timingCurve(days),
	}, nil
}

func normalize(dist map[models.ResponseAction]float64) {
	total := 0.0
	for _, v := range dist {
		total += v
	}
	if total == 0 {
		return
	}
	for k, v := range dist {
		dist[k] = v / total
	}
}

func roundDistribution(dist map[models.ResponseAction]float64) map[models.ResponseAction]float64 {
	out := make(map[models.ResponseAction]float64, len(dist))
	for k, v := range dist {
		out[k] = round3(v)
	}
	return out
}

// timingCurve builds a symmetric triangular likelihood peaking at the
// expected day, spanning half the expected delay on each side and clipped
// at day zero.
func timingCurve(expectedDays float64) []models.TimingPoint {
	peak := int(math.Round(expectedDays))
	if peak < 0 {
		peak = 0
	}
	half := int(math.Round(expectedDays / 2))
	if half < 1 {
		half = 1
	}

	start := peak - half
	if start < 0 {
		start = 0
	}
	end := peak + half

	curve := make([]models.TimingPoint, 0, end-start+1)
	for day := start; day <= end; day++ {
		dist := math.Abs(float64(day - peak))
		likelihood := 1 - dist/float64(half+1)
		curve = append(curve, models.TimingPoint{Day: day, Likelihood: round3(likelihood)})
	}
	return curve
}
