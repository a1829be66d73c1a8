package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Voxmill/internal/domain/models"
)

func snapshotRun(n int) []models.MarketSnapshot {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	snaps := make([]models.MarketSnapshot, 0, n)
	// Newest first.
	for i := n - 1; i >= 0; i-- {
		snaps = append(snaps, models.MarketSnapshot{Area: "mayfair", Date: base.AddDate(0, 0, i)})
	}
	return snaps
}

func TestAvailabilityEmpty(t *testing.T) {
	uc := NewAvailabilityUseCase(&stubStore{})

	status, err := uc.Check(context.Background(), "mayfair")
	require.NoError(t, err)

	assert.Equal(t, 0, status.TotalSnapshots)
	assert.Nil(t, status.OldestSnapshot)
	assert.Nil(t, status.NewestSnapshot)
	assert.Equal(t, "unavailable (need 2+ days)", status.Capabilities["liquidity_velocity"])
	assert.Equal(t, "unavailable (need 10+ days, have 0)", status.Capabilities["liquidity_windows"])
	assert.Equal(t, "limited (optimal: 30+ days, have 0)", status.Capabilities["agent_profiling"])
}

func TestAvailabilityPartial(t *testing.T) {
	uc := NewAvailabilityUseCase(&stubStore{snaps: snapshotRun(12)})

	status, err := uc.Check(context.Background(), "mayfair")
	require.NoError(t, err)

	assert.Equal(t, 12, status.TotalSnapshots)
	assert.Equal(t, "available", status.Capabilities["liquidity_velocity"])
	assert.Equal(t, "available", status.Capabilities["liquidity_windows"])
	assert.Equal(t, "limited (optimal: 30+ days, have 12)", status.Capabilities["agent_profiling"])
	assert.Equal(t, "limited (optimal: 30+ days, have 12)", status.Capabilities["cascade_prediction"])
}

func TestAvailabilityFull(t *testing.T) {
	uc := NewAvailabilityUseCase(&stubStore{snaps: snapshotRun(35)})

	status, err := uc.Check(context.Background(), "mayfair")
	require.NoError(t, err)

	assert.Equal(t, "available", status.Capabilities["agent_profiling"])
	assert.Equal(t, "available", status.Capabilities["cascade_prediction"])
	require.NotNil(t, status.NewestSnapshot)
	require.NotNil(t, status.OldestSnapshot)
	assert.True(t, status.NewestSnapshot.After(*status.OldestSnapshot))
}
