package models

// Cluster is a group of behaviorally similar agents. The archetype label is
// derived from centroid characteristics at clustering time and is
// independent of the fixed archetype catalog used for classification.
type Cluster struct {
	ID          int           `json:"cluster_id"`
	Archetype   string        `json:"archetype"`
	Description string        `json:"description"`
	Agents      []string      `json:"agents"`
	AgentCount  int           `json:"agent_count"`
	Cohesion    float64       `json:"cohesion"`
	Centroid    FeatureVector `json:"centroid"`
}

// LeaderFollowerPair is a detected leader→follower relationship.
type LeaderFollowerPair struct {
	Leader      string  `json:"leader"`
	Follower    string  `json:"follower"`
	Correlation float64 `json:"correlation"`
	Confidence  float64 `json:"confidence"`
	AvgLagDays  int     `json:"avg_lag_days"`
}

// ClusterSync measures how synchronized two clusters are.
type ClusterSync struct {
	ClusterA        int     `json:"cluster_a"`
	ClusterB        int     `json:"cluster_b"`
	Synchronization float64 `json:"synchronization"`
	Interpretation  string  `json:"interpretation"`
}

// ClusteringResult groups agents into behavioral clusters with
// leader/follower pairs and inter-cluster synchronization.
type ClusteringResult struct {
	Area                string               `json:"area,omitempty"`
	TotalAgents         int                  `json:"total_agents"`
	Clusters            []Cluster            `json:"clusters"`
	LeaderFollowerPairs []LeaderFollowerPair `json:"leader_follower_pairs"`
	Synchronization     []ClusterSync        `json:"synchronization"`
	Insights            []string             `json:"strategic_insights"`
}
