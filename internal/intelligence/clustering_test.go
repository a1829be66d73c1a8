package intelligence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Voxmill/internal/domain/models"
)

func profileWith(agent string, fp models.FeatureVector) models.AgentProfile {
	return models.AgentProfile{AgentID: agent, Fingerprint: fp}
}

// Three well-separated behavioral groups: aggressive initiators, slow
// conservative followers, and erratic movers.
func clusterFixture() []models.AgentProfile {
	leader := models.FeatureVector{
		InitiationRate:          0.8,
		AvgResponseDays:         4,
		MagnitudeAggressiveness: 1.6,
		PremiumPositioning:      2,
		Volatility:              1.5,
		Consistency:             0.8,
	}
	follower := models.FeatureVector{
		InitiationRate:          0.1,
		AvgResponseDays:         45,
		MagnitudeAggressiveness: 0.4,
		PremiumPositioning:      10,
		Volatility:              1.0,
		Consistency:             0.85,
	}
	erratic := models.FeatureVector{
		InitiationRate:          0.5,
		AvgResponseDays:         15,
		MagnitudeAggressiveness: 1.2,
		PremiumPositioning:      -10,
		Volatility:              8,
		Consistency:             0.2,
	}
	return []models.AgentProfile{
		profileWith("KnightFrank", leader),
		profileWith("Savills", leader),
		profileWith("Chestertons", follower),
		profileWith("Hamptons", follower),
		profileWith("Foxtons", erratic),
		profileWith("Dexters", erratic),
	}
}

func TestClusterInsufficientAgents(t *testing.T) {
	d := NewPackDetector()
	_, err := d.Cluster("Mayfair", clusterFixture()[:2])
	require.ErrorIs(t, err, ErrInsufficientAgents)
}

func TestClusterSeparatesGroups(t *testing.T) {
	d := NewPackDetector()

	result, err := d.Cluster("Mayfair", clusterFixture())
	require.NoError(t, err)

	assert.Equal(t, 6, result.TotalAgents)
	require.Len(t, result.Clusters, 3)

	byAgent := map[string]int{}
	for _, c := range result.Clusters {
		assert.Equal(t, len(c.Agents), c.AgentCount)
		assert.GreaterOrEqual(t, c.Cohesion, 0.0)
		assert.LessOrEqual(t, c.Cohesion, 1.0)
		for _, a := range c.Agents {
			byAgent[a] = c.ID
		}
	}
	assert.Equal(t, byAgent["KnightFrank"], byAgent["Savills"])
	assert.Equal(t, byAgent["Chestertons"], byAgent["Hamptons"])
	assert.Equal(t, byAgent["Foxtons"], byAgent["Dexters"])
	assert.NotEqual(t, byAgent["KnightFrank"], byAgent["Chestertons"])
	assert.NotEqual(t, byAgent["KnightFrank"], byAgent["Foxtons"])

	assert.NotEmpty(t, result.Insights)
	require.Len(t, result.Synchronization, 3, "one entry per cluster pair")
}

func TestClusterDeterministicUnderInputOrder(t *testing.T) {
	d := NewPackDetector()

	forward := clusterFixture()
	reversed := make([]models.AgentProfile, len(forward))
	for i, p := range forward {
		reversed[len(forward)-1-i] = p
	}

	a, err := d.Cluster("Mayfair", forward)
	require.NoError(t, err)
	b, err := d.Cluster("Mayfair", reversed)
	require.NoError(t, err)

	assert.Equal(t, a, b, "input order must not change the partition")
}

func TestClusterArchetypeLabels(t *testing.T) {
	d := NewPackDetector()

	result, err := d.Cluster("Mayfair", clusterFixture())
	require.NoError(t, err)

	labels := map[string]bool{}
	for _, c := range result.Clusters {
		labels[c.Archetype] = true
	}
	assert.True(t, labels["Market Leaders"], "aggressive initiators should label as leaders: %v", labels)
	assert.True(t, labels["Tactical Opportunists"], "high-volatility group should label as opportunists: %v", labels)
}

func TestLeaderFollowerPairs(t *testing.T) {
	d := NewPackDetector()

	// A leader and a follower with near-identical behavior apart from
	// initiation.
	leaderFP := models.FeatureVector{
		InitiationRate:          0.65,
		AvgResponseDays:         10,
		MagnitudeAggressiveness: 1.0,
		PremiumPositioning:      0,
		Volatility:              1,
		Consistency:             0.8,
	}
	followerFP := leaderFP
	followerFP.InitiationRate = 0.35
	followerFP.AvgResponseDays = 14

	profiles := []models.AgentProfile{
		profileWith("Leader", leaderFP),
		profileWith("Shadow", followerFP),
		profileWith("Outlier", models.FeatureVector{
			InitiationRate:          0.3,
			AvgResponseDays:         60,
			MagnitudeAggressiveness: 0.2,
			PremiumPositioning:      18,
			Volatility:              9,
			Consistency:             0.1,
		}),
	}

	result, err := d.Cluster("Mayfair", profiles)
	require.NoError(t, err)

	require.NotEmpty(t, result.LeaderFollowerPairs)
	pair := result.LeaderFollowerPairs[0]
	assert.Equal(t, "Leader", pair.Leader)
	assert.Equal(t, "Shadow", pair.Follower)
	assert.Greater(t, pair.Correlation, 0.5)
	assert.Equal(t, 4, pair.AvgLagDays)
}
