package intelligence

import (
	"fmt"
	"math"
	"sort"

	"Voxmill/internal/domain/models"
)

// Clustering constants.
const (
	// MinClusterAgents is the minimum profile count for clustering.
	MinClusterAgents = 3

	clusterCount  = 3
	maxIterations = 10

	// similarityThreshold bounds the behavioral distance at which a
	// leader and follower count as a pair.
	similarityThreshold = 0.5

	maxReportedPairs = 10

	// Fingerprint normalization scales. Each dimension is mapped into
	// [0,1] before Euclidean distance.
	aggressivenessScale = 2.0
	responseDaysScale   = 60.0
	volatilityScale     = 10.0
	premiumOffset       = 20.0
	premiumSpan         = 40.0
)

// vectorDim is the normalized fingerprint dimensionality.
const vectorDim = 6

// PackDetector groups agents into behavioral packs with deterministic
// k-means. Stateless and safe for concurrent use.
type PackDetector struct{}

// NewPackDetector returns a detector.
func NewPackDetector() *PackDetector {
	return &PackDetector{}
}

type clusterAgent struct {
	id      string
	vector  [vectorDim]float64
	profile models.AgentProfile
}

// Cluster partitions the profiles into up to three behavioral clusters,
// then derives leader/follower pairs, inter-cluster synchronization and
// strategic insights. Output ordering is deterministic for a given input
// set regardless of input order.
func (d *PackDetector) Cluster(area string, profiles []models.AgentProfile) (models.ClusteringResult, error) {
	if len(profiles) < MinClusterAgents {
		return models.ClusteringResult{}, fmt.Errorf("clustering %s: %w: have %d agents, need %d",
			area, ErrInsufficientAgents, len(profiles), MinClusterAgents)
	}

	agents := make([]clusterAgent, 0, len(profiles))
	for _, p := range profiles {
		agents = append(agents, clusterAgent{id: p.AgentID, vector: normalizeFingerprint(p.Fingerprint), profile: p})
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].id < agents[j].id })

	groups := kmeans(agents)

	clusters := make([]models.Cluster, 0, len(groups))
	for i, g := range groups {
		clusters = append(clusters, describeCluster(i+1, g))
	}

	result := models.ClusteringResult{
		Area:                area,
		TotalAgents:         len(agents),
		Clusters:            clusters,
		LeaderFollowerPairs: leaderFollowerPairs(agents),
		Synchronization:     synchronization(groups),
	}
	result.Insights = clusterInsights(result)
	return result, nil
}

// normalizeFingerprint maps each fingerprint dimension into [0,1] so no
// single dimension dominates Euclidean distance.
func normalizeFingerprint(fp models.FeatureVector) [vectorDim]float64 {
	return [vectorDim]float64{
		clamp(fp.MagnitudeAggressiveness/aggressivenessScale, 0, 1),
		clamp(fp.AvgResponseDays/responseDaysScale, 0, 1),
		clamp((fp.PremiumPositioning+premiumOffset)/premiumSpan, 0, 1),
		clamp(fp.Volatility/volatilityScale, 0, 1),
		clamp(fp.Consistency, 0, 1),
		clamp(fp.InitiationRate, 0, 1),
	}
}

func distance(a, b [vectorDim]float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// kmeans runs a deterministic k-means over the agents. Seeding is
// farthest-point from the lexicographically first agent, so the same agent
// set always yields the same partition. Empty clusters are dropped between
// iterations.
func kmeans(agents []clusterAgent) [][]clusterAgent {
	k := clusterCount
	if len(agents) < k {
		k = len(agents)
	}

	centroids := seedCentroids(agents, k)

	var groups [][]clusterAgent
	for iter := 0; iter < maxIterations; iter++ {
		groups = make([][]clusterAgent, len(centroids))
		for _, a := range agents {
			best, bestDist := 0, math.Inf(1)
			for c, centroid := range centroids {
				if d := distance(a.vector, centroid); d < bestDist {
					best, bestDist = c, d
				}
			}
			groups[best] = append(groups[best], a)
		}

		nonEmpty := groups[:0]
		for _, g := range groups {
			if len(g) > 0 {
				nonEmpty = append(nonEmpty, g)
			}
		}
		groups = nonEmpty

		next := make([][vectorDim]float64, len(groups))
		for i, g := range groups {
			next[i] = centroidOf(g)
		}
		if len(next) == len(centroids) && centroidsEqual(next, centroids) {
			break
		}
		centroids = next
	}
	return groups
}

// seedCentroids picks k spread-maximizing seeds: the first agent in sorted
// order, then repeatedly the agent farthest from all chosen seeds.
func seedCentroids(agents []clusterAgent, k int) [][vectorDim]float64 {
	seeds := [][vectorDim]float64{agents[0].vector}
	for len(seeds) < k {
		bestIdx, bestDist := -1, -1.0
		for i, a := range agents {
			minDist := math.Inf(1)
			for _, s := range seeds {
				if d := distance(a.vector, s); d < minDist {
					minDist = d
				}
			}
			if minDist > bestDist {
				bestIdx, bestDist = i, minDist
			}
		}
		seeds = append(seeds, agents[bestIdx].vector)
	}
	return seeds
}

func centroidOf(group []clusterAgent) [vectorDim]float64 {
	var c [vectorDim]float64
	for _, a := range group {
		for i := range c {
			c[i] += a.vector[i]
		}
	}
	for i := range c {
		c[i] /= float64(len(group))
	}
	return c
}

func centroidsEqual(a, b [][vectorDim]float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// describeCluster labels a cluster from its centroid and measures cohesion
// as one minus the mean intra-cluster distance.
func describeCluster(id int, group []clusterAgent) models.Cluster {
	c := centroidOf(group)

	aggressiveness := c[0]
	responseSpeed := c[1]
	volatility := c[3]
	consistency := c[4]
	initiation := c[5]

	var archetype, description string
	switch {
	case aggressiveness > 0.7 && initiation > 0.6:
		archetype = "Market Leaders"
		description = "High aggression, frequent initiators, set market direction"
	case aggressiveness < 0.3 && responseSpeed > 0.7:
		archetype = "Conservative Followers"
		description = "Low aggression, slow responders, risk-averse positioning"
	case consistency > 0.7 && volatility < 0.3:
		archetype = "Stable Operators"
		description = "High consistency, low volatility, predictable behavior"
	case volatility > 0.6:
		archetype = "Tactical Opportunists"
		description = "High volatility, adaptive strategy, condition-dependent"
	default:
		archetype = "Balanced Movers"
		description = "Moderate across dimensions, market-neutral positioning"
	}

	var dists []float64
	for i := range group {
		for j := i + 1; j < len(group); j++ {
			dists = append(dists, distance(group[i].vector, group[j].vector))
		}
	}

	names := make([]string, 0, len(group))
	for _, a := range group {
		names = append(names, a.id)
	}

	return models.Cluster{
		ID:          id,
		Archetype:   archetype,
		Description: description,
		Agents:      names,
		AgentCount:  len(names),
		Cohesion:    round2(clamp(1-mean(dists), 0, 1)),
		Centroid: models.FeatureVector{
			MagnitudeAggressiveness: round2(aggressiveness * aggressivenessScale),
			AvgResponseDays:         round1(responseSpeed * responseDaysScale),
			PremiumPositioning:      round1(c[2]*premiumSpan - premiumOffset),
			Volatility:              round2(volatility * volatilityScale),
			Consistency:             round2(consistency),
			InitiationRate:          round2(initiation),
		},
	}
}

// leaderFollowerPairs matches high-initiation consistent agents to
// low-initiation agents with similar behavior, strongest correlations
// first, capped at maxReportedPairs.
func leaderFollowerPairs(agents []clusterAgent) []models.LeaderFollowerPair {
	var leaders, followers []clusterAgent
	for _, a := range agents {
		fp := a.profile.Fingerprint
		switch {
		case fp.InitiationRate > 0.6 && fp.Consistency > 0.7:
			leaders = append(leaders, a)
		case fp.InitiationRate < 0.4:
			followers = append(followers, a)
		}
	}

	var pairs []models.LeaderFollowerPair
	for _, leader := range leaders {
		for _, follower := range followers {
			dist := distance(leader.vector, follower.vector)
			if dist >= similarityThreshold {
				continue
			}
			correlation := 1 - dist
			confidence := 0.6
			if correlation > 0.7 {
				confidence = 0.75
			}
			pairs = append(pairs, models.LeaderFollowerPair{
				Leader:      leader.id,
				Follower:    follower.id,
				Correlation: round2(correlation),
				Confidence:  confidence,
				AvgLagDays:  int(math.Abs(leader.profile.Fingerprint.AvgResponseDays - follower.profile.Fingerprint.AvgResponseDays)),
			})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Correlation != pairs[j].Correlation {
			return pairs[i].Correlation > pairs[j].Correlation
		}
		if pairs[i].Leader != pairs[j].Leader {
			return pairs[i].Leader < pairs[j].Leader
		}
		return pairs[i].Follower < pairs[j].Follower
	})
	if len(pairs) > maxReportedPairs {
		pairs = pairs[:maxReportedPairs]
	}
	return pairs
}

// synchronization scores every cluster pair by the mean cross-cluster
// agent distance.
func synchronization(groups [][]clusterAgent) []models.ClusterSync {
	var syncs []models.ClusterSync
	for i := 0; i < len(groups); i++ {
		for j := i + 1; j < len(groups); j++ {
			var dists []float64
			for _, a := range groups[i] {
				for _, b := range groups[j] {
					dists = append(dists, distance(a.vector, b.vector))
				}
			}
			avg := 1.0
			if len(dists) > 0 {
				avg = mean(dists)
			}
			sync := math.Max(0, 1-avg)

			interpretation := "Low synchronization - Independent movement"
			switch {
			case sync > 0.7:
				interpretation = "High synchronization - Move together"
			case sync > 0.4:
				interpretation = "Moderate synchronization - Some correlation"
			}
			syncs = append(syncs, models.ClusterSync{
				ClusterA:        i + 1,
				ClusterB:        j + 1,
				Synchronization: round2(sync),
				Interpretation:  interpretation,
			})
		}
	}
	return syncs
}

func clusterInsights(result models.ClusteringResult) []string {
	var insights []string

	largest := result.Clusters[0]
	for _, c := range result.Clusters[1:] {
		if c.AgentCount > largest.AgentCount {
			largest = c
		}
	}
	insights = append(insights, fmt.Sprintf("Dominant behavior: %s (%d agents, %.0f%% cohesion)",
		largest.Archetype, largest.AgentCount, largest.Cohesion*100))

	if len(result.LeaderFollowerPairs) > 0 {
		top := result.LeaderFollowerPairs[0]
		insights = append(insights, fmt.Sprintf("Strongest leader-follower: %s -> %s (%.0f%% correlation, %dd lag)",
			top.Leader, top.Follower, top.Correlation*100, top.AvgLagDays))
	}

	if len(result.Clusters) >= 3 {
		insights = append(insights, fmt.Sprintf("Market fragmented: %d distinct behavioral clusters detected", len(result.Clusters)))
	} else {
		insights = append(insights, fmt.Sprintf("Market consolidated: %d behavioral clusters suggest coordinated movement", len(result.Clusters)))
	}

	var consistencies []float64
	for _, c := range result.Clusters {
		consistencies = append(consistencies, c.Centroid.Consistency)
	}
	avgConsistency := mean(consistencies)
	if avgConsistency > 0.7 {
		insights = append(insights, fmt.Sprintf("High predictability: %.0f%% average consistency across clusters", avgConsistency*100))
	} else {
		insights = append(insights, fmt.Sprintf("Low predictability: %.0f%% average consistency suggests volatile conditions", avgConsistency*100))
	}
	return insights
}
