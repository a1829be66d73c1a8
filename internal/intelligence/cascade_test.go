package intelligence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Voxmill/internal/domain/models"
)

func testNetwork() *models.InfluenceNetwork {
	nodes := map[string]*models.InfluenceNode{}
	for _, id := range []string{"L", "B", "C", "D", "E"} {
		nodes[id] = &models.InfluenceNode{AgentID: id}
	}
	edge := func(from, to string, prob, days, ratio float64) (models.EdgeKey, *models.InfluenceEdge) {
		return models.EdgeKey{From: from, To: to}, &models.InfluenceEdge{
			From: from, To: to,
			ResponseProbability: prob,
			AvgResponseDays:     days,
			AvgMagnitudeRatio:   ratio,
		}
	}
	edges := map[models.EdgeKey]*models.InfluenceEdge{}
	for _, e := range []struct {
		from, to          string
		prob, days, ratio float64
	}{
		{"L", "B", 0.8, 3, 0.9},
		{"L", "C", 0.45, 5, 0.8},
		{"L", "D", 0.3, 4, 1.0},
		{"B", "D", 0.5, 4, 1.0},
		{"B", "L", 0.9, 2, 1.0},
		{"C", "E", 0.4, 6, 0.7},
	} {
		k, v := edge(e.from, e.to, e.prob, e.days, e.ratio)
		edges[k] = v
	}
	return &models.InfluenceNetwork{Area: "Mayfair", Nodes: nodes, Edges: edges}
}

func TestPredictCascadeUnknownAgent(t *testing.T) {
	s := NewChainSimulator()
	_, err := s.Predict(testNetwork(), "Ghost", -5, nil)
	require.ErrorIs(t, err, ErrAgentNotFound)
}

func TestPredictCascadeWaves(t *testing.T) {
	s := NewChainSimulator()

	pred, err := s.Predict(testNetwork(), "L", -5, nil)
	require.NoError(t, err)

	assert.Equal(t, "L", pred.InitiatingAgent)
	assert.Equal(t, -5.0, pred.InitialMagnitude)
	require.Len(t, pred.Waves, 2, "no third wave without responders to the second")

	wave1 := pred.Waves[0]
	require.Len(t, wave1.Agents, 2, "edge below the first-wave threshold stays out")
	assert.Equal(t, "B", wave1.Agents[0].AgentID)
	assert.InDelta(t, 0.8, wave1.Agents[0].Probability, 0.001)
	assert.InDelta(t, -4.5, wave1.Agents[0].PredictedMagnitude, 0.01)
	assert.InDelta(t, 3.0, wave1.Agents[0].TimingDays, 0.01)
	assert.Equal(t, "L", wave1.Agents[0].Trigger)

	wave2 := pred.Waves[1]
	require.Len(t, wave2.Agents, 2)
	assert.Equal(t, "D", wave2.Agents[0].AgentID)
	assert.InDelta(t, 0.5*wave2Discount, wave2.Agents[0].Probability, 0.001)
	assert.InDelta(t, -4.5, wave2.Agents[0].PredictedMagnitude, 0.01, "magnitude compounds through the chain")
	assert.InDelta(t, 7.0, wave2.Agents[0].TimingDays, 0.01, "timing accumulates from the parent")
	assert.Equal(t, "B", wave2.Agents[0].Trigger)

	assert.InDelta(t, 0.625, pred.CascadeProbability, 0.001, "mean of first-wave probabilities")
	assert.Equal(t, 4, pred.TotalAffectedAgents)
	assert.Equal(t, 13, pred.ExpectedDurationDays)
	assert.Equal(t, models.ImpactSevere, pred.MarketImpact, "four of five agents affected")
}

func TestPredictCascadeStress(t *testing.T) {
	s := NewChainSimulator()

	pred, err := s.Predict(testNetwork(), "L", -5, &models.MarketScenario{MarketStress: true})
	require.NoError(t, err)

	wave1 := pred.Waves[0]
	assert.InDelta(t, 0.96, wave1.Agents[0].Probability, 0.001, "stress amplifies first-wave response")
	assert.InDelta(t, 0.54, wave1.Agents[1].Probability, 0.001)
	assert.InDelta(t, 0.75, pred.CascadeProbability, 0.001)
}

func TestPredictCascadeDeterministic(t *testing.T) {
	s := NewChainSimulator()

	a, err := s.Predict(testNetwork(), "L", -5, nil)
	require.NoError(t, err)
	b, err := s.Predict(testNetwork(), "L", -5, nil)
	require.NoError(t, err)

	assert.Equal(t, a, b, "identical inputs must produce identical predictions")
}

func TestPredictCascadeNoResponders(t *testing.T) {
	s := NewChainSimulator()

	net := &models.InfluenceNetwork{
		Area:  "Mayfair",
		Nodes: map[string]*models.InfluenceNode{"L": {AgentID: "L"}, "B": {AgentID: "B"}},
		Edges: map[models.EdgeKey]*models.InfluenceEdge{
			{From: "L", To: "B"}: {From: "L", To: "B", ResponseProbability: 0.2},
		},
	}

	pred, err := s.Predict(net, "L", -5, nil)
	require.NoError(t, err)
	assert.Empty(t, pred.Waves)
	assert.Zero(t, pred.CascadeProbability)
	assert.Zero(t, pred.TotalAffectedAgents)
	assert.Equal(t, models.ImpactMinimal, pred.MarketImpact)
}

func TestClassifyImpact(t *testing.T) {
	cases := []struct {
		fraction, prob float64
		want           models.MarketImpact
	}{
		{0.1, 0.1, models.ImpactMinimal},
		{0.25, 0.1, models.ImpactModerate},
		{0.1, 0.45, models.ImpactModerate},
		{0.45, 0.1, models.ImpactMajor},
		{0.1, 0.65, models.ImpactMajor},
		{0.65, 0.1, models.ImpactSevere},
		{0.1, 0.8, models.ImpactSevere},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, classifyImpact(tc.fraction, tc.prob),
			"fraction=%v prob=%v", tc.fraction, tc.prob)
	}
}
