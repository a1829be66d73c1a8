package intelligence

import (
	"math"
	"sort"
	"time"

	"Voxmill/internal/domain/models"
	"Voxmill/pkg/util"
)

// Event derivation constants.
const (
	// priceMoveFloorPct filters listing noise from real repricing.
	priceMoveFloorPct = 2.0

	// inventoryMoveFloor is the absolute listing-count change that
	// registers as an inventory event.
	inventoryMoveFloor = 2

	// firstMoverWindowDays: a move with no competitor move in this many
	// preceding days initiated the activity.
	firstMoverWindowDays = 7

	// ratioWindowDays bounds the concurrent moves a magnitude is
	// compared against.
	ratioWindowDays = 7
)

type agentDay struct {
	agent    string
	date     time.Time
	count    int
	avgPrice float64
}

type derivedMove struct {
	agent     string
	date      time.Time
	magnitude float64
	avgPrice  float64
	marketAvg float64
	prevDate  time.Time
}

// DeriveEvents differences a chronology of market snapshots into behavioral
// events for every agent present. Snapshots may arrive in any order; output
// is sorted by timestamp, then agent, then kind.
func DeriveEvents(snapshots []models.MarketSnapshot) []models.BehavioralEvent {
	if len(snapshots) < 2 {
		return nil
	}

	ordered := append([]models.MarketSnapshot(nil), snapshots...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })

	// Per-snapshot agent aggregates and the market-wide average price.
	perDay := make([]map[string]agentDay, len(ordered))
	marketAvg := make([]float64, len(ordered))
	for i, snap := range ordered {
		day := make(map[string]agentDay)
		var marketPrices []float64
		for _, l := range snap.Listings {
			if l.Agent == "" {
				continue
			}
			d := day[l.Agent]
			d.agent = l.Agent
			d.date = snap.Date
			d.count++
			d.avgPrice += l.Price
			day[l.Agent] = d
			if l.Price > 0 {
				marketPrices = append(marketPrices, l.Price)
			}
		}
		for agent, d := range day {
			d.avgPrice /= float64(d.count)
			day[agent] = d
		}
		perDay[i] = day
		marketAvg[i] = mean(marketPrices)
	}

	var moves []derivedMove
	var events []models.BehavioralEvent

	for i := 1; i < len(ordered); i++ {
		prev, curr := perDay[i-1], perDay[i]
		for agent, c := range curr {
			p, ok := prev[agent]
			if !ok {
				continue
			}

			if p.avgPrice > 0 {
				pct := (c.avgPrice - p.avgPrice) / p.avgPrice * 100
				if math.Abs(pct) > priceMoveFloorPct {
					moves = append(moves, derivedMove{
						agent:     agent,
						date:      c.date,
						magnitude: pct,
						avgPrice:  c.avgPrice,
						marketAvg: marketAvg[i],
						prevDate:  p.date,
					})
				}
			}

			if delta := c.count - p.count; delta >= inventoryMoveFloor || delta <= -inventoryMoveFloor {
				events = append(events, models.BehavioralEvent{
					AgentID:   agent,
					Area:      ordered[i].Area,
					Timestamp: c.date,
					Kind:      models.EventInventoryChange,
					Magnitude: round1(float64(delta) / float64(p.count) * 100),
				})
			}
		}
	}

	sort.Slice(moves, func(i, j int) bool {
		if !moves[i].date.Equal(moves[j].date) {
			return moves[i].date.Before(moves[j].date)
		}
		return moves[i].agent < moves[j].agent
	})

	area := ordered[0].Area
	for i, m := range moves {
		ev := models.BehavioralEvent{
			AgentID:        m.agent,
			Area:           area,
			Timestamp:      m.date,
			Kind:           models.EventPriceChange,
			Magnitude:      round2(m.magnitude),
			FirstMover:     true,
			AgentAvgPrice:  round2(m.avgPrice),
			MarketAvgPrice: round2(m.marketAvg),
			MagnitudeRatio: magnitudeRatio(moves, i),
		}

		// A competitor move in the preceding window both clears the
		// first-mover flag and records a response event.
		var trigger *derivedMove
		for j := i - 1; j >= 0; j-- {
			gap := m.date.Sub(moves[j].date)
			if gap > responseWindowDays*24*time.Hour {
				break
			}
			if moves[j].agent == m.agent || gap <= 0 {
				continue
			}
			if gap <= firstMoverWindowDays*24*time.Hour {
				ev.FirstMover = false
			}
			if trigger == nil {
				trigger = &moves[j]
			}
		}
		events = append(events, ev)

		if trigger != nil {
			events = append(events, models.BehavioralEvent{
				AgentID:        m.agent,
				Area:           area,
				Timestamp:      m.date,
				Kind:           models.EventResponse,
				Magnitude:      round2(m.magnitude),
				DaysToRespond:  util.DaysBetween(trigger.date, m.date),
				MagnitudeRatio: responseRatio(m.magnitude, trigger.magnitude),
			})
		}
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Timestamp.Before(events[j].Timestamp)
		}
		if events[i].AgentID != events[j].AgentID {
			return events[i].AgentID < events[j].AgentID
		}
		return events[i].Kind < events[j].Kind
	})
	return events
}

// magnitudeRatio compares a move's magnitude against the mean absolute
// magnitude of all moves within the surrounding window. 1 when the move
// stands alone.
func magnitudeRatio(moves []derivedMove, idx int) float64 {
	m := moves[idx]
	window := ratioWindowDays * 24 * time.Hour

	var mags []float64
	for _, other := range moves {
		gap := m.date.Sub(other.date)
		if gap < 0 {
			gap = -gap
		}
		if gap <= window {
			mags = append(mags, math.Abs(other.magnitude))
		}
	}
	avg := mean(mags)
	if avg == 0 {
		return 1
	}
	return round3(math.Abs(m.magnitude) / avg)
}

func responseRatio(response, trigger float64) float64 {
	if trigger == 0 {
		return 1
	}
	return round3(math.Abs(response) / math.Abs(trigger))
}
