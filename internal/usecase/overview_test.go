package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Voxmill/internal/domain/models"
	"Voxmill/internal/intelligence"
)

// limitRecordingStore captures the snapshot limits requested of it.
type limitRecordingStore struct {
	stubStore
	mu     sync.Mutex
	limits []int
}

func (s *limitRecordingStore) GetSnapshots(ctx context.Context, area string, limit int) ([]models.MarketSnapshot, error) {
	s.mu.Lock()
	s.limits = append(s.limits, limit)
	s.mu.Unlock()
	return s.stubStore.GetSnapshots(ctx, area, limit)
}

func TestOverviewRequiresArea(t *testing.T) {
	uc := NewOverviewUseCase(newTestAggregator(&stubStore{}))

	_, err := uc.GetOverview(context.Background(), GetOverviewParams{})
	assert.Error(t, err)
}

func TestOverviewIsolatesSectionFailures(t *testing.T) {
	// An empty store fails every section without failing the view.
	uc := NewOverviewUseCase(newTestAggregator(&stubStore{}))

	res, err := uc.GetOverview(context.Background(), GetOverviewParams{Area: "mayfair"})
	require.NoError(t, err)

	assert.Equal(t, "mayfair", res.Area)
	assert.Nil(t, res.Velocity)
	assert.Nil(t, res.Windows)
	assert.Nil(t, res.Clusters)
	assert.Nil(t, res.Network)
	for _, section := range []string{"velocity", "windows", "clusters", "network"} {
		assert.Contains(t, res.Errors, section)
	}
}

func TestOverviewForwardsSnapshotLimit(t *testing.T) {
	store := &limitRecordingStore{}
	agg := NewIntelligenceAggregator(
		store,
		intelligence.NewBehavioralProfiler(),
		intelligence.NewGraphBuilder(),
		intelligence.NewChainSimulator(),
		intelligence.NewFlowMeter(),
		intelligence.NewWindowOracle(),
		intelligence.NewPackDetector(),
	)
	uc := NewOverviewUseCase(agg)

	_, err := uc.GetOverview(context.Background(), GetOverviewParams{Area: "mayfair", Snapshots: 12})
	require.NoError(t, err)

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.limits, 2, "velocity and windows both read snapshots")
	for _, limit := range store.limits {
		assert.Equal(t, 12, limit)
	}
}

func TestOverviewPartialSections(t *testing.T) {
	store := &stubStore{
		snaps: testSnapshots(),
		events: map[string][]models.BehavioralEvent{
			"Savills": agentHistory("Savills", 8),
		},
	}
	uc := NewOverviewUseCase(newTestAggregator(store))

	res, err := uc.GetOverview(context.Background(), GetOverviewParams{Area: "mayfair"})
	require.NoError(t, err)

	// Two snapshots support velocity but not windows.
	require.NotNil(t, res.Velocity)
	assert.Nil(t, res.Windows)
	assert.Contains(t, res.Errors, "windows")

	// One profilable agent, so profiles resolve but clustering cannot.
	require.Len(t, res.Profiles, 1)
	assert.Contains(t, res.Errors, "clusters")
}
