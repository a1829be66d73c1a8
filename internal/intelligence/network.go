package intelligence

import (
	"fmt"
	"math"
	"sort"
	"time"

	"Voxmill/internal/domain/models"
)

// Network construction constants.
const (
	// MinNetworkEvents is the minimum raw event count for an area.
	MinNetworkEvents = 5

	// MinSignificantMoves is the minimum count of significant price moves.
	MinSignificantMoves = 3

	// significantMovePct filters out noise repricing.
	significantMovePct = 3.0

	// responseWindowDays is how long after a move a competitor's move
	// still counts as a response to it.
	responseWindowDays = 30
)

// GraphBuilder constructs influence networks from event histories.
// Stateless and safe for concurrent use.
type GraphBuilder struct{}

// NewGraphBuilder returns a builder.
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{}
}

type sigMove struct {
	agent     string
	timestamp time.Time
	magnitude float64
}

// Build derives the directed influence graph for one area. Every ordered
// pair of significant moves by distinct agents inside the response window
// contributes a candidate edge, while a move counts as a response at most
// once for its own agent's totals.
func (b *GraphBuilder) Build(area string, lookbackDays int, events []models.BehavioralEvent) (*models.InfluenceNetwork, error) {
	if len(events) < MinNetworkEvents {
		return nil, fmt.Errorf("network %s: %w: have %d events, need %d",
			area, ErrInsufficientData, len(events), MinNetworkEvents)
	}

	moves := make([]sigMove, 0, len(events))
	for _, e := range events {
		if e.IsMove() && math.Abs(e.Magnitude) >= significantMovePct {
			moves = append(moves, sigMove{agent: e.AgentID, timestamp: e.Timestamp, magnitude: e.Magnitude})
		}
	}
	if len(moves) < MinSignificantMoves {
		return nil, fmt.Errorf("network %s: %w: have %d significant moves, need %d",
			area, ErrInsufficientData, len(moves), MinSignificantMoves)
	}

	sort.Slice(moves, func(i, j int) bool {
		if !moves[i].timestamp.Equal(moves[j].timestamp) {
			return moves[i].timestamp.Before(moves[j].timestamp)
		}
		return moves[i].agent < moves[j].agent
	})

	net := &models.InfluenceNetwork{
		Area:         area,
		LookbackDays: lookbackDays,
		Nodes:        make(map[string]*models.InfluenceNode),
		Edges:        make(map[models.EdgeKey]*models.InfluenceEdge),
	}

	node := func(agent string) *models.InfluenceNode {
		n, ok := net.Nodes[agent]
		if !ok {
			n = &models.InfluenceNode{AgentID: agent}
			net.Nodes[agent] = n
		}
		return n
	}

	type edgeAccum struct {
		count   int
		days    []float64
		ratios  []float64
		daysMin int
		daysMax int
	}
	accums := make(map[models.EdgeKey]*edgeAccum)

	window := responseWindowDays * 24 * time.Hour

	for i, m := range moves {
		node(m.agent).TotalMoves++

		// Walk backwards over every competitor move inside the window.
		// Moves are time-ordered, so the first gap past the window ends
		// the scan. Each pair contributes an edge, but the move itself
		// is a response only once.
		responded := false
		for j := i - 1; j >= 0; j-- {
			prev := &moves[j]
			gap := m.timestamp.Sub(prev.timestamp)
			if gap > window {
				break
			}
			if prev.agent == m.agent || gap <= 0 {
				continue
			}

			if !responded {
				node(m.agent).Responses++
				responded = true
			}
			days := gap.Hours() / 24

			key := models.EdgeKey{From: prev.agent, To: m.agent}
			acc, ok := accums[key]
			if !ok {
				acc = &edgeAccum{daysMin: int(math.MaxInt32), daysMax: 0}
				accums[key] = acc
			}
			acc.count++
			acc.days = append(acc.days, days)
			if prev.magnitude != 0 {
				acc.ratios = append(acc.ratios, math.Abs(m.magnitude)/math.Abs(prev.magnitude))
			}
			d := int(math.Round(days))
			if d < acc.daysMin {
				acc.daysMin = d
			}
			if d > acc.daysMax {
				acc.daysMax = d
			}
		}
	}

	for _, n := range net.Nodes {
		n.Initiations = n.TotalMoves - n.Responses
		if n.TotalMoves > 0 {
			n.InitiationRate = round3(float64(n.Initiations) / float64(n.TotalMoves))
		}
	}

	for key, acc := range accums {
		from := net.Nodes[key.From]
		prob := 0.0
		if from.TotalMoves > 0 {
			prob = math.Min(float64(acc.count)/float64(from.TotalMoves), 1)
		}
		ratio := 1.0
		if len(acc.ratios) > 0 {
			ratio = mean(acc.ratios)
		}
		net.Edges[key] = &models.InfluenceEdge{
			From:                key.From,
			To:                  key.To,
			ResponseCount:       acc.count,
			ResponseProbability: round3(prob),
			AvgResponseDays:     round1(mean(acc.days)),
			AvgMagnitudeRatio:   round3(ratio),
			ResponseDaysMin:     acc.daysMin,
			ResponseDaysMax:     acc.daysMax,
		}
	}

	net.BuiltAt = time.Now().UTC()
	return net, nil
}
