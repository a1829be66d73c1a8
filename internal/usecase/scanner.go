package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"Voxmill/internal/domain/models"
	domrepo "Voxmill/internal/domain/repository"
	"Voxmill/internal/intelligence"
	applogger "Voxmill/pkg/logger"
	"Voxmill/pkg/queue"
)

// ScanJobType is the queue message type for area scans.
const ScanJobType = "market_scan"

// AreaScanPayload is the queue payload for one area scan.
type AreaScanPayload struct {
	Area string `json:"area"`
}

// MarketScanner diffs the two most recent snapshots of an area and
// publishes the alerts it finds.
type MarketScanner struct {
	store     domrepo.EventStore
	publisher domrepo.AlertPublisher
	l         *applogger.Logger
}

func NewMarketScanner(store domrepo.EventStore, publisher domrepo.AlertPublisher) *MarketScanner {
	return &MarketScanner{store: store, publisher: publisher}
}

// SetLogger injects a structured logger.
func (s *MarketScanner) SetLogger(l *applogger.Logger) { s.l = l }

func (s *MarketScanner) Scan(ctx context.Context, area string) ([]models.MarketAlert, error) {
	snaps, err := s.store.GetSnapshots(ctx, area, 2)
	if err != nil {
		return nil, err
	}
	if len(snaps) < 2 {
		return nil, fmt.Errorf("%w: need 2 snapshots for %s, have %d", intelligence.ErrInsufficientData, area, len(snaps))
	}
	// Snapshots arrive newest first.
	alerts := intelligence.DetectMarketAlerts(snaps[0], snaps[1])
	if len(alerts) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	for i := range alerts {
		alerts[i].ID = uuid.NewString()
		alerts[i].CreatedAt = now
	}
	if s.publisher != nil {
		if err := s.publisher.PublishMarket(ctx, alerts); err != nil {
			return alerts, fmt.Errorf("publish market alerts: %w", err)
		}
	}
	if s.l != nil {
		s.l.Info("scanner.alerts",
			applogger.String("area", area),
			applogger.Int("count", len(alerts)))
	}
	return alerts, nil
}

// ScanJob processes queued area scans.
type ScanJob struct {
	scanner *MarketScanner
	l       *applogger.Logger
}

func NewScanJob(scanner *MarketScanner, l *applogger.Logger) *ScanJob {
	return &ScanJob{scanner: scanner, l: l}
}

func (j *ScanJob) Name() string { return "market-scan" }

func (j *ScanJob) Type() string { return ScanJobType }

func (j *ScanJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[AreaScanPayload](payload)
	if err != nil {
		return fmt.Errorf("scan payload: %w", err)
	}
	if p.Area == "" {
		return fmt.Errorf("scan payload: area empty")
	}
	_, err = j.scanner.Scan(ctx, p.Area)
	if errors.Is(err, intelligence.ErrInsufficientData) {
		// Not retryable; the area simply has no history yet.
		if j.l != nil {
			j.l.Debug("scanner.skip", applogger.String("area", p.Area), applogger.Error(err))
		}
		return nil
	}
	return err
}

// ScanScheduler enqueues a scan for every configured area on a fixed
// interval.
type ScanScheduler struct {
	q        queue.QueueService
	areas    []string
	interval time.Duration
	stopCh   chan struct{}
	l        *applogger.Logger
}

func NewScanScheduler(q queue.QueueService, areas []string, interval time.Duration) *ScanScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ScanScheduler{
		q:        q,
		areas:    areas,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// SetLogger injects a structured logger.
func (s *ScanScheduler) SetLogger(l *applogger.Logger) { s.l = l }

// Start launches the scheduling loop. It returns immediately.
func (s *ScanScheduler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.enqueueAll(ctx)
			}
		}
	}()
}

func (s *ScanScheduler) Stop() { close(s.stopCh) }

func (s *ScanScheduler) enqueueAll(ctx context.Context) {
	for _, area := range s.areas {
		if err := s.q.PublishMessage(ctx, ScanJobType, AreaScanPayload{Area: area}); err != nil {
			if s.l != nil {
				s.l.Warn("scanner.enqueue_error", applogger.String("area", area), applogger.Error(err))
			}
		}
	}
}
