package intelligence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Voxmill/internal/domain/models"
)

func TestBuildNetworkInsufficientEvents(t *testing.T) {
	b := NewGraphBuilder()

	_, err := b.Build("Mayfair", 90, []models.BehavioralEvent{
		priceEvent("A", 0, -5, true, 1),
		priceEvent("B", 3, -4, false, 1),
	})
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestBuildNetworkInsufficientSignificantMoves(t *testing.T) {
	b := NewGraphBuilder()

	events := []models.BehavioralEvent{
		priceEvent("A", 0, -1, true, 1),
		priceEvent("B", 3, -1.5, false, 1),
		priceEvent("C", 5, -2, false, 1),
		priceEvent("A", 10, -2.5, false, 1),
		priceEvent("B", 13, -5, false, 1),
	}
	_, err := b.Build("Mayfair", 90, events)
	require.ErrorIs(t, err, ErrInsufficientData,
		"sub-3%% repricing noise must not form a network")
}

func TestBuildNetworkEdges(t *testing.T) {
	b := NewGraphBuilder()

	events := []models.BehavioralEvent{
		priceEvent("A", 0, -5, true, 1),
		priceEvent("B", 3, -4, false, 0.8),
		priceEvent("A", 10, -5, false, 1),
		priceEvent("B", 13, -4, false, 0.8),
		priceEvent("A", 20, -5, false, 1),
	}

	net, err := b.Build("Mayfair", 90, events)
	require.NoError(t, err)

	assert.Equal(t, "Mayfair", net.Area)
	assert.Equal(t, 90, net.LookbackDays)
	require.True(t, net.HasAgent("A"))
	require.True(t, net.HasAgent("B"))

	a := net.Nodes["A"]
	assert.Equal(t, 3, a.TotalMoves)
	assert.Equal(t, 1, a.Initiations, "only the opening move had no trigger")
	assert.Equal(t, 2, a.Responses)
	assert.InDelta(t, 0.333, a.InitiationRate, 0.001)

	bNode := net.Nodes["B"]
	assert.Equal(t, 2, bNode.TotalMoves)
	assert.Equal(t, 0, bNode.Initiations)

	// Every A move inside 30 days of a later B move is a candidate pair:
	// A@0 before B@3 and B@13, A@10 before B@13.
	ab, ok := net.Edges[models.EdgeKey{From: "A", To: "B"}]
	require.True(t, ok)
	assert.Equal(t, 3, ab.ResponseCount)
	assert.InDelta(t, 1.0, ab.ResponseProbability, 0.001, "capped at 1 even with more pairs than moves")
	assert.InDelta(t, 6.3, ab.AvgResponseDays, 0.01)
	assert.InDelta(t, 0.8, ab.AvgMagnitudeRatio, 0.001)
	assert.Equal(t, 3, ab.ResponseDaysMin)
	assert.Equal(t, 13, ab.ResponseDaysMax)

	ba, ok := net.Edges[models.EdgeKey{From: "B", To: "A"}]
	require.True(t, ok)
	assert.Equal(t, 3, ba.ResponseCount)
	assert.InDelta(t, 10.3, ba.AvgResponseDays, 0.01)
}

func TestBuildNetworkAllPairEdges(t *testing.T) {
	b := NewGraphBuilder()

	// Three agents move in sequence well inside the window. The chain
	// must yield an edge for every ordered pair, not only adjacent ones.
	events := []models.BehavioralEvent{
		priceEvent("A", 0, 5, true, 1),
		priceEvent("B", 3, 5, false, 1),
		priceEvent("C", 5, 5, false, 1),
		priceEvent("A", 7, 1, false, 1),
		priceEvent("B", 9, 1.5, false, 1),
	}

	net, err := b.Build("Mayfair", 90, events)
	require.NoError(t, err)
	require.Len(t, net.Edges, 3)

	for _, key := range []models.EdgeKey{
		{From: "A", To: "B"},
		{From: "A", To: "C"},
		{From: "B", To: "C"},
	} {
		e, ok := net.Edges[key]
		require.True(t, ok, "missing edge %s->%s", key.From, key.To)
		assert.Equal(t, 1, e.ResponseCount)
		assert.InDelta(t, 1.0, e.ResponseProbability, 0.001)
	}

	ac := net.Edges[models.EdgeKey{From: "A", To: "C"}]
	assert.InDelta(t, 5.0, ac.AvgResponseDays, 0.01)

	// Node totals still count each move once.
	assert.Equal(t, 1, net.Nodes["B"].Responses)
	assert.Equal(t, 1, net.Nodes["C"].Responses)
	assert.Equal(t, 1, net.Nodes["A"].Initiations)
}

func TestBuildNetworkResponseWindow(t *testing.T) {
	b := NewGraphBuilder()

	// B's second move lands 40 days after anything else and cannot be a
	// response.
	events := []models.BehavioralEvent{
		priceEvent("A", 0, -5, true, 1),
		priceEvent("B", 3, -4, false, 1),
		priceEvent("C", 5, -6, false, 1),
		priceEvent("B", 45, -4, false, 1),
		priceEvent("A", 47, -5, false, 1),
	}

	net, err := b.Build("Mayfair", 90, events)
	require.NoError(t, err)

	bNode := net.Nodes["B"]
	assert.Equal(t, 1, bNode.Responses)
	assert.Equal(t, 1, bNode.Initiations)
}

func TestOutgoingEdgesOrdering(t *testing.T) {
	net := &models.InfluenceNetwork{
		Nodes: map[string]*models.InfluenceNode{"A": {AgentID: "A"}},
		Edges: map[models.EdgeKey]*models.InfluenceEdge{
			{From: "A", To: "B"}: {From: "A", To: "B", ResponseProbability: 0.5},
			{From: "A", To: "C"}: {From: "A", To: "C", ResponseProbability: 0.9},
			{From: "A", To: "D"}: {From: "A", To: "D", ResponseProbability: 0.5},
		},
	}

	edges := net.OutgoingEdges("A")
	require.Len(t, edges, 3)
	assert.Equal(t, "C", edges[0].To)
	assert.Equal(t, "B", edges[1].To, "equal probabilities tie-break by target")
	assert.Equal(t, "D", edges[2].To)
}
