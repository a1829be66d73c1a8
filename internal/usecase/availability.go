package usecase

import (
	"context"
	"fmt"

	"Voxmill/internal/domain/models"
	domrepo "Voxmill/internal/domain/repository"
)

// Snapshot depth needed by each intelligence layer.
const (
	velocityMinSnapshots  = 2
	windowsMinSnapshots   = 10
	profilingMinSnapshots = 30
	availabilityLookback  = 90
)

// AvailabilityUseCase reports which intelligence layers the stored history
// for an area can currently support.
type AvailabilityUseCase struct {
	store domrepo.EventStore
}

func NewAvailabilityUseCase(store domrepo.EventStore) *AvailabilityUseCase {
	return &AvailabilityUseCase{store: store}
}

func (uc *AvailabilityUseCase) Check(ctx context.Context, area string) (models.DataAvailability, error) {
	snaps, err := uc.store.GetSnapshots(ctx, area, availabilityLookback)
	if err != nil {
		return models.DataAvailability{}, err
	}

	status := models.DataAvailability{
		Area:           area,
		TotalSnapshots: len(snaps),
		Capabilities:   map[string]string{},
	}
	if len(snaps) > 0 {
		// Snapshots arrive newest first.
		newest := snaps[0].Date
		oldest := snaps[len(snaps)-1].Date
		status.NewestSnapshot = &newest
		status.OldestSnapshot = &oldest
	}

	n := len(snaps)
	if n >= velocityMinSnapshots {
		status.Capabilities["liquidity_velocity"] = "available"
	} else {
		status.Capabilities["liquidity_velocity"] = "unavailable (need 2+ days)"
	}
	if n >= windowsMinSnapshots {
		status.Capabilities["liquidity_windows"] = "available"
	} else {
		status.Capabilities["liquidity_windows"] = fmt.Sprintf("unavailable (need 10+ days, have %d)", n)
	}
	if n >= profilingMinSnapshots {
		status.Capabilities["agent_profiling"] = "available"
		status.Capabilities["cascade_prediction"] = "available"
	} else {
		limited := fmt.Sprintf("limited (optimal: 30+ days, have %d)", n)
		status.Capabilities["agent_profiling"] = limited
		status.Capabilities["cascade_prediction"] = limited
	}
	return status, nil
}
