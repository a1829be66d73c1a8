package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"Voxmill/internal/domain/models"
)

// OverviewUseCase assembles the aggregate intelligence view for an area.
// Sections are computed concurrently; a section that cannot be computed
// is reported in Errors instead of failing the whole view.
type OverviewUseCase struct {
	agg     *IntelligenceAggregator
	timeout time.Duration
}

func NewOverviewUseCase(agg *IntelligenceAggregator) *OverviewUseCase {
	return &OverviewUseCase{agg: agg, timeout: 15 * time.Second}
}

type GetOverviewParams struct {
	Area      string
	Days      int
	Snapshots int
}

func (uc *OverviewUseCase) GetOverview(ctx context.Context, p GetOverviewParams) (*models.MarketOverview, error) {
	if p.Area == "" {
		return nil, fmt.Errorf("area required")
	}
	if p.Days <= 0 {
		p.Days = 90
	}
	if p.Snapshots <= 0 {
		p.Snapshots = 30
	}

	// Overall timeout
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	res := &models.MarketOverview{
		Area:      p.Area,
		Timestamp: time.Now().UTC(),
		Errors:    map[string]string{},
	}

	type item struct {
		name string
		val  interface{}
		err  error
	}
	ch := make(chan item, 5)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.agg.Velocity(ctx, p.Area, p.Snapshots)
		ch <- item{"velocity", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.agg.Windows(ctx, p.Area, p.Snapshots)
		ch <- item{"windows", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.agg.Profiles(ctx, p.Area, p.Days)
		ch <- item{"profiles", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.agg.Clusters(ctx, p.Area, p.Days)
		ch <- item{"clusters", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.agg.Network(ctx, p.Area, p.Days)
		ch <- item{"network", v, err}
	}()

	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		if it.err != nil {
			res.Errors[it.name] = it.err.Error()
			continue
		}
		switch it.name {
		case "velocity":
			v := it.val.(models.VelocitySnapshot)
			res.Velocity = &v
		case "windows":
			v := it.val.(models.WindowForecast)
			res.Windows = &v
		case "profiles":
			v := it.val.([]models.AgentProfile)
			res.Profiles = v
		case "clusters":
			v := it.val.(models.ClusteringResult)
			res.Clusters = &v
		case "network":
			res.Network = it.val.(*models.NetworkSummary)
		}
	}

	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	return res, nil
}
