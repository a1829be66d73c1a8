package usecase

import (
	"context"
	"sort"
	"time"

	"Voxmill/internal/domain/models"
	domrepo "Voxmill/internal/domain/repository"
	domsvc "Voxmill/internal/domain/service"
	applogger "Voxmill/pkg/logger"
)

// IntelligenceAggregator orchestrates the behavioral intelligence layers
// over the event store. Each method is one entry point; storage access
// happens here, the domain services receive materialized collections.
type IntelligenceAggregator struct {
	store    domrepo.EventStore
	profiler domsvc.Profiler
	network  domsvc.NetworkBuilder
	cascade  domsvc.CascadeSimulator
	velocity domsvc.VelocityCalculator
	windows  domsvc.WindowPredictor
	clusters domsvc.Clusterer
	metrics  domrepo.Metrics
	l        *applogger.Logger
}

func NewIntelligenceAggregator(
	store domrepo.EventStore,
	profiler domsvc.Profiler,
	network domsvc.NetworkBuilder,
	cascade domsvc.CascadeSimulator,
	velocity domsvc.VelocityCalculator,
	windows domsvc.WindowPredictor,
	clusters domsvc.Clusterer,
) *IntelligenceAggregator {
	return &IntelligenceAggregator{
		store:    store,
		profiler: profiler,
		network:  network,
		cascade:  cascade,
		velocity: velocity,
		windows:  windows,
		clusters: clusters,
	}
}

// SetMetrics injects an operational metrics recorder.
func (a *IntelligenceAggregator) SetMetrics(m domrepo.Metrics) { a.metrics = m }

// SetLogger injects a structured logger.
func (a *IntelligenceAggregator) SetLogger(l *applogger.Logger) { a.l = l }

func (a *IntelligenceAggregator) record(op, area string) {
	if a.metrics != nil {
		a.metrics.RecordComputation(op, area)
	}
}

func lookback(days int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -days)
}

// Profile classifies one agent's behavior from its event history.
func (a *IntelligenceAggregator) Profile(ctx context.Context, area, agentID string, days int) (models.AgentProfile, error) {
	events, err := a.store.GetAgentEvents(ctx, area, agentID, lookback(days))
	if err != nil {
		return models.AgentProfile{}, err
	}
	profile, err := a.profiler.Classify(agentID, events)
	if err != nil {
		return models.AgentProfile{}, err
	}
	profile.Area = area
	a.record("profile", area)
	return profile, nil
}

// Forecast predicts one agent's response to a hypothetical market move.
func (a *IntelligenceAggregator) Forecast(ctx context.Context, area, agentID string, days int, scenario models.MarketScenario) (models.ResponseForecast, error) {
	profile, err := a.Profile(ctx, area, agentID, days)
	if err != nil {
		return models.ResponseForecast{}, err
	}
	forecast, err := a.profiler.PredictResponse(profile, scenario)
	if err != nil {
		return models.ResponseForecast{}, err
	}
	a.record("forecast", area)
	return forecast, nil
}

// Network builds the influence network for an area.
func (a *IntelligenceAggregator) Network(ctx context.Context, area string, days int) (*models.NetworkSummary, error) {
	net, err := a.buildNetwork(ctx, area, days)
	if err != nil {
		return nil, err
	}
	a.record("network", area)
	return models.Summarize(net), nil
}

// Cascade predicts how a price move by one agent propagates. The network
// is built on demand from the same lookback used for the initiating agent.
func (a *IntelligenceAggregator) Cascade(ctx context.Context, area, agentID string, magnitude float64, days int, stress bool) (models.CascadePrediction, error) {
	net, err := a.buildNetwork(ctx, area, days)
	if err != nil {
		return models.CascadePrediction{}, err
	}
	var scenario *models.MarketScenario
	if stress {
		scenario = &models.MarketScenario{Magnitude: magnitude, MarketStress: true}
	}
	pred, err := a.cascade.Predict(net, agentID, magnitude, scenario)
	if err != nil {
		return models.CascadePrediction{}, err
	}
	a.record("cascade", area)
	return pred, nil
}

// Velocity computes the current liquidity-velocity reading for an area.
func (a *IntelligenceAggregator) Velocity(ctx context.Context, area string, snapshots int) (models.VelocitySnapshot, error) {
	snaps, err := a.store.GetSnapshots(ctx, area, snapshots)
	if err != nil {
		return models.VelocitySnapshot{}, err
	}
	v, err := a.velocity.Compute(snaps)
	if err != nil {
		return models.VelocitySnapshot{}, err
	}
	if a.metrics != nil {
		a.metrics.RecordVelocityScore(area, v.Score)
	}
	a.record("velocity", area)
	return v, nil
}

// Windows forecasts liquidity windows from the area's velocity history.
func (a *IntelligenceAggregator) Windows(ctx context.Context, area string, snapshots int) (models.WindowForecast, error) {
	snaps, err := a.store.GetSnapshots(ctx, area, snapshots)
	if err != nil {
		return models.WindowForecast{}, err
	}
	scores, err := a.velocity.Series(snaps)
	if err != nil {
		return models.WindowForecast{}, err
	}
	forecast, err := a.windows.Predict(area, scores)
	if err != nil {
		return models.WindowForecast{}, err
	}
	a.record("windows", area)
	return forecast, nil
}

// Clusters groups the area's profilable agents by behavioral similarity.
func (a *IntelligenceAggregator) Clusters(ctx context.Context, area string, days int) (models.ClusteringResult, error) {
	profiles, err := a.Profiles(ctx, area, days)
	if err != nil {
		return models.ClusteringResult{}, err
	}
	res, err := a.clusters.Cluster(area, profiles)
	if err != nil {
		return models.ClusteringResult{}, err
	}
	a.record("clusters", area)
	return res, nil
}

// Profiles classifies every agent in the area with enough history. Agents
// below the history floor are skipped rather than failing the batch.
func (a *IntelligenceAggregator) Profiles(ctx context.Context, area string, days int) ([]models.AgentProfile, error) {
	events, err := a.store.GetEvents(ctx, area, lookback(days))
	if err != nil {
		return nil, err
	}
	byAgent := map[string][]models.BehavioralEvent{}
	for _, e := range events {
		byAgent[e.AgentID] = append(byAgent[e.AgentID], e)
	}
	agents := make([]string, 0, len(byAgent))
	for id := range byAgent {
		agents = append(agents, id)
	}
	sort.Strings(agents)

	profiles := make([]models.AgentProfile, 0, len(agents))
	for _, id := range agents {
		p, err := a.profiler.Classify(id, byAgent[id])
		if err != nil {
			if a.l != nil {
				a.l.Debug("intelligence.profiles skip",
					applogger.String("area", area),
					applogger.String("agent", id),
					applogger.Error(err))
			}
			continue
		}
		p.Area = area
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (a *IntelligenceAggregator) buildNetwork(ctx context.Context, area string, days int) (*models.InfluenceNetwork, error) {
	events, err := a.store.GetEvents(ctx, area, lookback(days))
	if err != nil {
		return nil, err
	}
	return a.network.Build(area, days, events)
}
