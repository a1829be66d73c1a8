package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"Voxmill/internal/domain/models"
	"Voxmill/internal/intelligence"
	pkgch "Voxmill/pkg/clickhouse"
	applogger "Voxmill/pkg/logger"
	"Voxmill/pkg/util"
)

// Schema holds the idempotent DDL for the snapshot store. Listing snapshots
// are the single source of truth; behavioral events are derived on read.
var Schema = []string{
	`CREATE DATABASE IF NOT EXISTS voxmill`,
	`CREATE TABLE IF NOT EXISTS voxmill.listing_snapshots (
        area          LowCardinality(String),
        snap_date     Date,
        address       String,
        price         Float64,
        price_per_ft2 Float64,
        agent         LowCardinality(String),
        listing_type  LowCardinality(String),
        bedrooms      Int32
    ) ENGINE = ReplacingMergeTree
    ORDER BY (area, snap_date, address)`,
}

// CHEventStore implements EventStore backed by ClickHouse listing
// snapshots. Events are materialized by differencing snapshots at read
// time, so the store never goes stale relative to the snapshot history.
type CHEventStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHEventStore(ch *pkgch.Client) *CHEventStore {
	return &CHEventStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHEventStore) SetLogger(l *applogger.Logger) { s.l = l }

// InitSchema creates the database and tables if absent.
func (s *CHEventStore) InitSchema(ctx context.Context, ch *pkgch.Client) error {
	return ch.InitSchema(ctx, Schema)
}

func (s *CHEventStore) GetEvents(ctx context.Context, area string, since time.Time) ([]models.BehavioralEvent, error) {
	snapshots, err := s.snapshotsSince(ctx, area, since)
	if err != nil {
		return nil, err
	}
	return intelligence.DeriveEvents(snapshots), nil
}

func (s *CHEventStore) GetAgentEvents(ctx context.Context, area, agentID string, since time.Time) ([]models.BehavioralEvent, error) {
	events, err := s.GetEvents(ctx, area, since)
	if err != nil {
		return nil, err
	}
	out := make([]models.BehavioralEvent, 0, len(events))
	for _, e := range events {
		if e.AgentID == agentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *CHEventStore) GetSnapshots(ctx context.Context, area string, limit int) ([]models.MarketSnapshot, error) {
	start := time.Now()
	const q = `
        SELECT snap_date, address, price, price_per_ft2, agent, listing_type, bedrooms
        FROM voxmill.listing_snapshots
        WHERE area = ?
          AND snap_date IN (
              SELECT DISTINCT snap_date
              FROM voxmill.listing_snapshots
              WHERE area = ?
              ORDER BY snap_date DESC
              LIMIT ?
          )
        ORDER BY snap_date DESC, address ASC
    `
	rows, err := s.db.QueryContext(ctx, q, area, area, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_snapshots query error",
				applogger.String("area", area),
				applogger.Int("limit", limit),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get snapshots: %w", err)
	}
	defer rows.Close()

	snapshots, err := collectSnapshots(rows, area)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_snapshots scan error",
				applogger.String("area", area),
				applogger.Error(err),
			)
		}
		return nil, err
	}

	if s.l != nil {
		s.l.Debug("clickhouse get_snapshots ok",
			applogger.String("area", area),
			applogger.Int("snapshots", len(snapshots)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return snapshots, nil
}

func (s *CHEventStore) snapshotsSince(ctx context.Context, area string, since time.Time) ([]models.MarketSnapshot, error) {
	start := time.Now()
	const q = `
        SELECT snap_date, address, price, price_per_ft2, agent, listing_type, bedrooms
        FROM voxmill.listing_snapshots
        WHERE area = ? AND snap_date >= ?
        ORDER BY snap_date DESC, address ASC
    `
	rows, err := s.db.QueryContext(ctx, q, area, since)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse snapshots_since query error",
				applogger.String("area", area),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get snapshots since: %w", err)
	}
	defer rows.Close()

	snapshots, err := collectSnapshots(rows, area)
	if err != nil {
		return nil, err
	}

	if s.l != nil {
		s.l.Debug("clickhouse snapshots_since ok",
			applogger.String("area", area),
			applogger.Int("snapshots", len(snapshots)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return snapshots, nil
}

// collectSnapshots groups listing rows into per-date snapshots, preserving
// the newest-first row order.
func collectSnapshots(rows *sql.Rows, area string) ([]models.MarketSnapshot, error) {
	var snapshots []models.MarketSnapshot
	var current *models.MarketSnapshot

	for rows.Next() {
		var (
			date    time.Time
			listing models.Listing
		)
		if err := rows.Scan(&date, &listing.Address, &listing.Price, &listing.PricePerFt2,
			&listing.Agent, &listing.Type, &listing.Bedrooms); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		// Date columns can come back in the server's location; pin to UTC
		// midnight so snapshot grouping and day math stay stable.
		date = util.StartOfDay(date)

		if current == nil || !current.Date.Equal(date) {
			snapshots = append(snapshots, models.MarketSnapshot{Area: area, Date: date})
			current = &snapshots[len(snapshots)-1]
		}
		current.Listings = append(current.Listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return snapshots, nil
}
