package intelligence

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Voxmill/internal/domain/models"
)

func snapshotOn(day int, listings ...models.Listing) models.MarketSnapshot {
	return models.MarketSnapshot{
		Area:     "mayfair",
		Date:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day),
		Listings: listings,
	}
}

func TestDetectMarketAlertsPriceDrop(t *testing.T) {
	prev := snapshotOn(0,
		models.Listing{Address: "1 Mount St", Price: 2000000, Agent: "Knight Frank"},
		models.Listing{Address: "2 Mount St", Price: 3000000, Agent: "Savills"},
	)
	cur := snapshotOn(1,
		models.Listing{Address: "1 Mount St", Price: 1760000, Agent: "Knight Frank"},
		models.Listing{Address: "2 Mount St", Price: 2850000, Agent: "Savills"},
	)

	alerts := DetectMarketAlerts(cur, prev)
	require.Len(t, alerts, 1)

	a := alerts[0]
	assert.Equal(t, models.AlertPriceDrop, a.Type)
	assert.Equal(t, models.UrgencyImmediate, a.Urgency)
	require.NotNil(t, a.PriceDrop)
	assert.Equal(t, "1 Mount St", a.PriceDrop.Address)
	assert.InDelta(t, -12.0, a.PriceDrop.ChangePct, 1e-9)
	assert.Equal(t, "Knight Frank", a.PriceDrop.Agent)
}

func TestDetectMarketAlertsNearTermDrop(t *testing.T) {
	prev := snapshotOn(0, models.Listing{Address: "5 Park Ln", Price: 1000000, Agent: "Savills"})
	cur := snapshotOn(1, models.Listing{Address: "5 Park Ln", Price: 930000, Agent: "Savills"})

	alerts := DetectMarketAlerts(cur, prev)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.UrgencyNearTerm, alerts[0].Urgency)
}

func TestDetectMarketAlertsSmallDropIgnored(t *testing.T) {
	prev := snapshotOn(0, models.Listing{Address: "5 Park Ln", Price: 1000000, Agent: "Savills"})
	cur := snapshotOn(1, models.Listing{Address: "5 Park Ln", Price: 970000, Agent: "Savills"})

	assert.Empty(t, DetectMarketAlerts(cur, prev))
}

func TestDetectMarketAlertsInventorySurge(t *testing.T) {
	prev := snapshotOn(0, models.Listing{Address: "A", Price: 1000000, Agent: "Savills"})
	fresh := []models.Listing{{Address: "A", Price: 1000000, Agent: "Savills"}}
	for i := 0; i < 6; i++ {
		fresh = append(fresh, models.Listing{
			Address: fmt.Sprintf("New %d", i),
			Price:   float64(2000000 - i*100000),
			Agent:   "Savills",
		})
	}
	cur := snapshotOn(1, fresh...)

	alerts := DetectMarketAlerts(cur, prev)

	var surge *models.MarketAlert
	for i := range alerts {
		if alerts[i].Type == models.AlertInventorySurge {
			surge = &alerts[i]
		}
	}
	require.NotNil(t, surge)
	assert.Equal(t, 6, surge.NewListings)
	require.Len(t, surge.Properties, 5)
	// Cheapest entrants lead the sample.
	assert.Equal(t, "New 5", surge.Properties[0].Address)
}

func TestDetectMarketAlertsAgentShift(t *testing.T) {
	prevListings := make([]models.Listing, 0, 4)
	for i := 0; i < 4; i++ {
		prevListings = append(prevListings, models.Listing{
			Address: fmt.Sprintf("KF %d", i), Price: 1000000, Agent: "Knight Frank",
		})
	}
	prev := snapshotOn(0, prevListings...)
	cur := snapshotOn(1, models.Listing{Address: "KF 0", Price: 1000000, Agent: "Knight Frank"})

	alerts := DetectMarketAlerts(cur, prev)
	require.Len(t, alerts, 1)

	a := alerts[0]
	assert.Equal(t, models.AlertAgentDepletion, a.Type)
	require.NotNil(t, a.AgentShift)
	assert.Equal(t, 1, a.AgentShift.CurrentCount)
	assert.Equal(t, 4, a.AgentShift.PreviousCount)
	assert.InDelta(t, -75.0, a.AgentShift.ChangePct, 1e-9)
}

func TestDetectMarketAlertsUnknownAgentIgnored(t *testing.T) {
	prev := snapshotOn(0,
		models.Listing{Address: "X1", Price: 1000000, Agent: "Unknown"},
		models.Listing{Address: "X2", Price: 1000000, Agent: "Unknown"},
	)
	cur := snapshotOn(1, models.Listing{Address: "X1", Price: 1000000, Agent: "Unknown"})

	assert.Empty(t, DetectMarketAlerts(cur, prev))
}
