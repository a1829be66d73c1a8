package models

import (
	"sort"
	"time"
)

// EdgeKey identifies a directed influence edge by its ordered agent pair.
type EdgeKey struct {
	From string
	To   string
}

// InfluenceNode is one agent inside an influence network.
type InfluenceNode struct {
	AgentID        string  `json:"agent_id"`
	TotalMoves     int     `json:"total_moves"`
	Initiations    int     `json:"initiations"`
	Responses      int     `json:"responses"`
	InitiationRate float64 `json:"initiation_rate"`
}

// InfluenceEdge is a directed edge encoding how often and how strongly the
// target agent reacts to the source agent's price moves.
type InfluenceEdge struct {
	From                string  `json:"from"`
	To                  string  `json:"to"`
	ResponseCount       int     `json:"response_count"`
	ResponseProbability float64 `json:"response_probability"`
	AvgResponseDays     float64 `json:"avg_response_days"`
	AvgMagnitudeRatio   float64 `json:"avg_magnitude_ratio"`
	ResponseDaysMin     int     `json:"response_days_min"`
	ResponseDaysMax     int     `json:"response_days_max"`
}

// InfluenceNetwork is a directed weighted graph over agents in one area.
// Cycles (A influences B and B influences A) are expected. The adjacency
// structure is flat: nodes keyed by agent, edges keyed by ordered pair.
type InfluenceNetwork struct {
	Area         string                     `json:"area"`
	LookbackDays int                        `json:"lookback_days"`
	Nodes        map[string]*InfluenceNode  `json:"nodes"`
	Edges        map[EdgeKey]*InfluenceEdge `json:"-"`
	BuiltAt      time.Time                  `json:"built_at"`
}

// HasAgent reports whether the agent exists as a node.
func (n *InfluenceNetwork) HasAgent(agentID string) bool {
	_, ok := n.Nodes[agentID]
	return ok
}

// OutgoingEdges returns the edges leaving the given agent, sorted by
// descending response probability, ties broken by target agent for
// deterministic traversal.
func (n *InfluenceNetwork) OutgoingEdges(agentID string) []*InfluenceEdge {
	out := make([]*InfluenceEdge, 0, 8)
	for key, e := range n.Edges {
		if key.From == agentID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ResponseProbability != out[j].ResponseProbability {
			return out[i].ResponseProbability > out[j].ResponseProbability
		}
		return out[i].To < out[j].To
	})
	return out
}

// SortedEdges returns all edges ordered by (from, to) for stable transport.
func (n *InfluenceNetwork) SortedEdges() []*InfluenceEdge {
	out := make([]*InfluenceEdge, 0, len(n.Edges))
	for _, e := range n.Edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}
