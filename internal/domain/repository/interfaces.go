package repository

import (
	"context"
	"time"

	"Voxmill/internal/domain/models"
)

// EventStore supplies time-ordered per-agent events and market snapshots
// for an area. It is the only boundary where storage latency is absorbed;
// the intelligence core receives fully materialized collections.
type EventStore interface {
	// GetEvents returns behavioral events for an area since the given
	// time, ordered by timestamp ascending.
	GetEvents(ctx context.Context, area string, since time.Time) ([]models.BehavioralEvent, error)

	// GetAgentEvents returns one agent's events, ordered ascending.
	GetAgentEvents(ctx context.Context, area, agentID string, since time.Time) ([]models.BehavioralEvent, error)

	// GetSnapshots returns up to limit listing snapshots for an area,
	// newest first.
	GetSnapshots(ctx context.Context, area string, limit int) ([]models.MarketSnapshot, error)
}

// AlertPublisher delivers velocity alerts to downstream consumers.
type AlertPublisher interface {
	Publish(ctx context.Context, alert models.VelocityAlert) error
	PublishBatch(ctx context.Context, alerts []models.VelocityAlert) error
	PublishMarket(ctx context.Context, alerts []models.MarketAlert) error
	Close() error
}

// Metrics records operational metrics for intelligence computations.
type Metrics interface {
	RecordComputation(op, area string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordVelocityScore(area string, score float64)
	RecordCacheHit(op string, hit bool)
}
