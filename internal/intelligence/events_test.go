package intelligence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Voxmill/internal/domain/models"
)

func agentListings(agent string, price float64, count int) []models.Listing {
	ls := make([]models.Listing, 0, count)
	for i := 0; i < count; i++ {
		ls = append(ls, models.Listing{
			Address: agent + string(rune('a'+i)),
			Agent:   agent,
			Price:   price,
		})
	}
	return ls
}

func TestDeriveEventsPriceChange(t *testing.T) {
	day0 := append(agentListings("Savills", 1000000, 2), agentListings("Foxtons", 800000, 2)...)
	day1 := append(agentListings("Savills", 950000, 2), agentListings("Foxtons", 800000, 2)...)

	events := DeriveEvents([]models.MarketSnapshot{
		snapshot(0, day0),
		snapshot(7, day1),
	})

	require.Len(t, events, 1, "only the 5%% drop registers")
	e := events[0]
	assert.Equal(t, "Savills", e.AgentID)
	assert.Equal(t, models.EventPriceChange, e.Kind)
	assert.InDelta(t, -5.0, e.Magnitude, 0.01)
	assert.True(t, e.FirstMover)
	assert.InDelta(t, 950000, e.AgentAvgPrice, 1)
	assert.Greater(t, e.MarketAvgPrice, 0.0)
}

func TestDeriveEventsBelowNoiseFloor(t *testing.T) {
	day0 := agentListings("Savills", 1000000, 3)
	day1 := agentListings("Savills", 985000, 3) // -1.5%, under the floor

	events := DeriveEvents([]models.MarketSnapshot{snapshot(0, day0), snapshot(7, day1)})
	assert.Empty(t, events)
}

func TestDeriveEventsInventoryChange(t *testing.T) {
	day0 := agentListings("Savills", 1000000, 2)
	day1 := agentListings("Savills", 1000000, 5)

	events := DeriveEvents([]models.MarketSnapshot{snapshot(0, day0), snapshot(7, day1)})

	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, models.EventInventoryChange, e.Kind)
	assert.InDelta(t, 150.0, e.Magnitude, 0.01, "two to five listings is +150%%")
}

func TestDeriveEventsResponseAndFirstMover(t *testing.T) {
	// Savills cuts on day 7; Foxtons follows on day 12.
	day0 := append(agentListings("Savills", 1000000, 2), agentListings("Foxtons", 800000, 2)...)
	day7 := append(agentListings("Savills", 950000, 2), agentListings("Foxtons", 800000, 2)...)
	day12 := append(agentListings("Savills", 950000, 2), agentListings("Foxtons", 760000, 2)...)

	events := DeriveEvents([]models.MarketSnapshot{
		snapshot(0, day0),
		snapshot(7, day7),
		snapshot(12, day12),
	})

	var savillsMove, foxtonsMove, foxtonsResponse *models.BehavioralEvent
	for i := range events {
		e := &events[i]
		switch {
		case e.AgentID == "Savills" && e.Kind == models.EventPriceChange:
			savillsMove = e
		case e.AgentID == "Foxtons" && e.Kind == models.EventPriceChange:
			foxtonsMove = e
		case e.AgentID == "Foxtons" && e.Kind == models.EventResponse:
			foxtonsResponse = e
		}
	}

	require.NotNil(t, savillsMove)
	assert.True(t, savillsMove.FirstMover)

	require.NotNil(t, foxtonsMove)
	assert.False(t, foxtonsMove.FirstMover, "a competitor moved five days earlier")
	assert.InDelta(t, -5.0, foxtonsMove.Magnitude, 0.01)

	require.NotNil(t, foxtonsResponse)
	assert.Equal(t, 5, foxtonsResponse.DaysToRespond)
	assert.InDelta(t, 1.0, foxtonsResponse.MagnitudeRatio, 0.01, "matched the trigger's 5%% cut")
}

func TestDeriveEventsUnsortedInput(t *testing.T) {
	day0 := agentListings("Savills", 1000000, 2)
	day7 := agentListings("Savills", 950000, 2)

	a := DeriveEvents([]models.MarketSnapshot{snapshot(0, day0), snapshot(7, day7)})
	b := DeriveEvents([]models.MarketSnapshot{snapshot(7, day7), snapshot(0, day0)})
	assert.Equal(t, a, b)
}
