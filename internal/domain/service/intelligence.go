package service

import "Voxmill/internal/domain/models"

// Profiler classifies one agent's event history into a behavioral profile
// and predicts the agent's response to a market scenario.
type Profiler interface {
	Classify(agentID string, events []models.BehavioralEvent) (models.AgentProfile, error)
	PredictResponse(profile models.AgentProfile, scenario models.MarketScenario) (models.ResponseForecast, error)
}

// NetworkBuilder constructs a directed influence network from an area's
// event history.
type NetworkBuilder interface {
	Build(area string, lookbackDays int, events []models.BehavioralEvent) (*models.InfluenceNetwork, error)
}

// CascadeSimulator walks an influence network generation by generation.
type CascadeSimulator interface {
	Predict(network *models.InfluenceNetwork, initiatingAgent string, initialMagnitude float64, scenario *models.MarketScenario) (models.CascadePrediction, error)
}

// VelocityCalculator computes the composite liquidity-velocity score from
// snapshots, newest first.
type VelocityCalculator interface {
	Compute(snapshots []models.MarketSnapshot) (models.VelocitySnapshot, error)
	// Series derives the velocity score for every consecutive snapshot
	// pair, oldest pair first.
	Series(snapshots []models.MarketSnapshot) ([]float64, error)
}

// WindowPredictor forecasts liquidity windows from a velocity score series
// in chronological order.
type WindowPredictor interface {
	Predict(area string, scores []float64) (models.WindowForecast, error)
}

// Clusterer groups agent profiles into behavioral similarity clusters.
type Clusterer interface {
	Cluster(area string, profiles []models.AgentProfile) (models.ClusteringResult, error)
}
