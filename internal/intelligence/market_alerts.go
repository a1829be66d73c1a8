package intelligence

import (
	"sort"

	"Voxmill/internal/domain/models"
)

const (
	priceDropAlertPct     = -5.0
	priceDropImmediatePct = -10.0
	inventorySurgeMin     = 5
	agentShiftPct         = 30.0
	surgeSampleSize       = 5
)

// DetectMarketAlerts diffs two snapshots of the same area and reports
// alert-worthy conditions: listing-level price drops, an inventory surge,
// and per-agent inventory shifts. The caller stamps IDs and timestamps.
func DetectMarketAlerts(current, previous models.MarketSnapshot) []models.MarketAlert {
	var alerts []models.MarketAlert
	alerts = append(alerts, detectPriceDrops(current, previous)...)
	alerts = append(alerts, detectInventorySurge(current, previous)...)
	alerts = append(alerts, detectAgentShifts(current, previous)...)
	return alerts
}

func detectPriceDrops(current, previous models.MarketSnapshot) []models.MarketAlert {
	prevByAddr := make(map[string]models.Listing, len(previous.Listings))
	for _, l := range previous.Listings {
		if l.Address != "" {
			prevByAddr[l.Address] = l
		}
	}

	var alerts []models.MarketAlert
	for _, cur := range current.Listings {
		if cur.Address == "" || cur.Price <= 0 {
			continue
		}
		prev, ok := prevByAddr[cur.Address]
		if !ok || prev.Price <= 0 || cur.Price >= prev.Price {
			continue
		}
		changePct := (cur.Price - prev.Price) / prev.Price * 100
		if changePct >= priceDropAlertPct {
			continue
		}
		urgency := models.UrgencyNearTerm
		if changePct < priceDropImmediatePct {
			urgency = models.UrgencyImmediate
		}
		alerts = append(alerts, models.MarketAlert{
			Area:    current.Area,
			Type:    models.AlertPriceDrop,
			Urgency: urgency,
			PriceDrop: &models.PriceDropDetail{
				Address:       cur.Address,
				CurrentPrice:  cur.Price,
				PreviousPrice: prev.Price,
				ChangePct:     round1(changePct),
				Agent:         cur.Agent,
				PropertyType:  cur.Type,
			},
		})
	}
	return alerts
}

func detectInventorySurge(current, previous models.MarketSnapshot) []models.MarketAlert {
	prevAddrs := make(map[string]bool, len(previous.Listings))
	for _, l := range previous.Listings {
		if l.Address != "" {
			prevAddrs[l.Address] = true
		}
	}

	var fresh []models.Listing
	for _, l := range current.Listings {
		if l.Address != "" && !prevAddrs[l.Address] {
			fresh = append(fresh, l)
		}
	}
	if len(fresh) < inventorySurgeMin {
		return nil
	}

	// Cheapest entrants lead the sample.
	sort.Slice(fresh, func(i, j int) bool {
		if fresh[i].Price != fresh[j].Price {
			return fresh[i].Price < fresh[j].Price
		}
		return fresh[i].Address < fresh[j].Address
	})
	sample := fresh
	if len(sample) > surgeSampleSize {
		sample = sample[:surgeSampleSize]
	}

	return []models.MarketAlert{{
		Area:        current.Area,
		Type:        models.AlertInventorySurge,
		Urgency:     models.UrgencyNearTerm,
		NewListings: len(fresh),
		Properties:  sample,
	}}
}

func detectAgentShifts(current, previous models.MarketSnapshot) []models.MarketAlert {
	countByAgent := func(listings []models.Listing) map[string]int {
		counts := map[string]int{}
		for _, l := range listings {
			if l.Agent != "" && l.Agent != "Unknown" {
				counts[l.Agent]++
			}
		}
		return counts
	}
	curCounts := countByAgent(current.Listings)
	prevCounts := countByAgent(previous.Listings)

	agents := make([]string, 0, len(curCounts))
	for agent := range curCounts {
		agents = append(agents, agent)
	}
	sort.Strings(agents)

	var alerts []models.MarketAlert
	for _, agent := range agents {
		prev := prevCounts[agent]
		if prev == 0 {
			continue
		}
		cur := curCounts[agent]
		changePct := float64(cur-prev) / float64(prev) * 100
		if changePct >= -agentShiftPct && changePct <= agentShiftPct {
			continue
		}
		alertType := models.AlertAgentSurge
		if changePct < 0 {
			alertType = models.AlertAgentDepletion
		}
		alerts = append(alerts, models.MarketAlert{
			Area:    current.Area,
			Type:    alertType,
			Urgency: models.UrgencyNearTerm,
			AgentShift: &models.AgentShiftDetail{
				Agent:         agent,
				CurrentCount:  cur,
				PreviousCount: prev,
				ChangePct:     round1(changePct),
			},
		})
	}
	return alerts
}
