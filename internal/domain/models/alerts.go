package models

import "time"

// AlertSeverity orders velocity alerts for delivery prioritization.
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "critical"
	SeverityHigh     AlertSeverity = "high"
	SeverityMedium   AlertSeverity = "medium"
)

// VelocityAlert is a notable market condition derived from a velocity
// reading, published for downstream delivery.
type VelocityAlert struct {
	ID          string        `json:"id"`
	Area        string        `json:"area"`
	Type        string        `json:"type"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	Implication string        `json:"implication"`
	Confidence  float64       `json:"confidence"`
	CreatedAt   time.Time     `json:"created_at"`
}

// MarketAlertType identifies a snapshot-diff alert condition.
type MarketAlertType string

const (
	AlertPriceDrop      MarketAlertType = "price_drop"
	AlertInventorySurge MarketAlertType = "inventory_surge"
	AlertAgentDepletion MarketAlertType = "agent_depletion"
	AlertAgentSurge     MarketAlertType = "agent_surge"
)

// AlertUrgency is how soon an alert deserves attention.
type AlertUrgency string

const (
	UrgencyImmediate AlertUrgency = "immediate"
	UrgencyNearTerm  AlertUrgency = "near_term"
)

// PriceDropDetail describes one listing whose price fell between snapshots.
type PriceDropDetail struct {
	Address       string  `json:"address"`
	CurrentPrice  float64 `json:"current_price"`
	PreviousPrice float64 `json:"previous_price"`
	ChangePct     float64 `json:"change_pct"`
	Agent         string  `json:"agent"`
	PropertyType  string  `json:"property_type,omitempty"`
}

// AgentShiftDetail describes a significant change in one agent's inventory.
type AgentShiftDetail struct {
	Agent         string  `json:"agent"`
	CurrentCount  int     `json:"current_count"`
	PreviousCount int     `json:"previous_count"`
	ChangePct     float64 `json:"change_pct"`
}

// MarketAlert is an alert-worthy condition found by diffing two market
// snapshots. Exactly one of the detail fields is set, matching Type.
type MarketAlert struct {
	ID          string            `json:"id"`
	Area        string            `json:"area"`
	Type        MarketAlertType   `json:"type"`
	Urgency     AlertUrgency      `json:"urgency"`
	PriceDrop   *PriceDropDetail  `json:"price_drop,omitempty"`
	NewListings int               `json:"new_listings,omitempty"`
	Properties  []Listing         `json:"properties,omitempty"`
	AgentShift  *AgentShiftDetail `json:"agent_shift,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// VelocityReport pairs a velocity reading with the alerts it raised.
type VelocityReport struct {
	Area     string           `json:"area"`
	Velocity VelocitySnapshot `json:"velocity"`
	Alerts   []VelocityAlert  `json:"alerts,omitempty"`
}

// MarketOverview is the aggregate intelligence view for one area. Sections
// that could not be computed are nil, with the reason recorded in Errors.
type MarketOverview struct {
	Area      string            `json:"area"`
	Timestamp time.Time         `json:"timestamp"`
	Velocity  *VelocitySnapshot `json:"velocity,omitempty"`
	Windows   *WindowForecast   `json:"windows,omitempty"`
	Profiles  []AgentProfile    `json:"profiles,omitempty"`
	Clusters  *ClusteringResult `json:"clusters,omitempty"`
	Network   *NetworkSummary   `json:"network,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// NetworkSummary is the transport form of an influence network.
type NetworkSummary struct {
	Area         string                    `json:"area"`
	LookbackDays int                       `json:"lookback_days"`
	Nodes        map[string]*InfluenceNode `json:"nodes"`
	Edges        []*InfluenceEdge          `json:"edges"`
	BuiltAt      time.Time                 `json:"built_at"`
}

// Summarize converts a network into its transport form.
func Summarize(n *InfluenceNetwork) *NetworkSummary {
	if n == nil {
		return nil
	}
	return &NetworkSummary{
		Area:         n.Area,
		LookbackDays: n.LookbackDays,
		Nodes:        n.Nodes,
		Edges:        n.SortedEdges(),
		BuiltAt:      n.BuiltAt,
	}
}

// DataAvailability reports which intelligence layers the stored history for
// an area can currently support.
type DataAvailability struct {
	Area           string            `json:"area"`
	TotalSnapshots int               `json:"total_snapshots"`
	OldestSnapshot *time.Time        `json:"oldest_snapshot,omitempty"`
	NewestSnapshot *time.Time        `json:"newest_snapshot,omitempty"`
	Capabilities   map[string]string `json:"capabilities"`
}
