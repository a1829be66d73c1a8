package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"Voxmill/internal/domain/models"
	applogger "Voxmill/pkg/logger"
)

// momentum change (in percent vs the 7-day average) that triggers the
// deceleration and acceleration alerts
const momentumAlertThreshold = 15.0

// Deliverer hands alerts to the delivery pipeline.
type Deliverer interface {
	Deliver(ctx context.Context, alerts []models.VelocityAlert) error
}

// AlertService derives velocity alerts from readings and hands them to
// the deliverer. IDs and timestamps are assigned here so the underlying
// computation stays deterministic.
type AlertService struct {
	deliverer Deliverer
	l         *applogger.Logger
}

func NewAlertService(deliverer Deliverer) *AlertService {
	return &AlertService{deliverer: deliverer}
}

// SetLogger injects a structured logger.
func (s *AlertService) SetLogger(l *applogger.Logger) { s.l = l }

// Detect evaluates one velocity reading against the alert rules and
// returns the alerts it raises, stamped and ready for delivery.
func (s *AlertService) Detect(area string, v models.VelocitySnapshot) []models.VelocityAlert {
	now := time.Now().UTC()
	var alerts []models.VelocityAlert
	add := func(alertType string, severity models.AlertSeverity, message, implication string, confidence float64) {
		alerts = append(alerts, models.VelocityAlert{
			ID:          uuid.NewString(),
			Area:        area,
			Type:        alertType,
			Severity:    severity,
			Message:     message,
			Implication: implication,
			Confidence:  confidence,
			CreatedAt:   now,
		})
	}

	if v.Momentum.Direction == models.MomentumDecelerating && v.Momentum.Pct >= momentumAlertThreshold {
		sev := models.SeverityMedium
		if v.Momentum.Pct >= 25 {
			sev = models.SeverityHigh
		}
		add("velocity_deceleration", sev,
			fmt.Sprintf("Liquidity velocity declining %.1f%% vs 7-day avg - market cooling rapidly", v.Momentum.Pct),
			"Extended transaction timelines likely. Consider aggressive pricing for exits.",
			0.82)
	}

	if v.Momentum.Direction == models.MomentumAccelerating && v.Momentum.Pct >= momentumAlertThreshold {
		add("velocity_acceleration", models.SeverityMedium,
			fmt.Sprintf("Liquidity velocity increasing %.1f%% vs 7-day avg - market heating", v.Momentum.Pct),
			"Competition for assets intensifying. Act decisively on opportunities.",
			0.78)
	}

	if v.Class == models.VelocityFrozen {
		add("market_freeze", models.SeverityCritical,
			fmt.Sprintf("Market velocity critically low (%.1f/100) - capital flow stagnant", v.Score),
			"Distress opportunities possible. Extreme buyer leverage. Long holding periods.",
			0.91)
	}

	if v.Components.AbsorptionRate < 5 {
		add("absorption_collapse", models.SeverityHigh,
			fmt.Sprintf("Absorption rate critically low (%.1f%%) - inventory stagnation", v.Components.AbsorptionRate),
			"Properties not exiting market. Price discovery impaired.",
			0.85)
	}

	if v.Components.TurnoverRate > 40 && v.Components.PriceDynamismRate < 15 {
		add("potential_bubble", models.SeverityMedium,
			"High turnover with rigid pricing - potential froth",
			"Market momentum divorced from price discovery. Monitor for correction signals.",
			0.65)
	}

	return alerts
}

// DetectAndPublish runs Detect and delivers whatever it raised. Delivery
// failure is logged but does not fail the caller; alerts are advisory.
func (s *AlertService) DetectAndPublish(ctx context.Context, area string, v models.VelocitySnapshot) []models.VelocityAlert {
	alerts := s.Detect(area, v)
	if len(alerts) == 0 || s.deliverer == nil {
		return alerts
	}
	if err := s.deliverer.Deliver(ctx, alerts); err != nil && s.l != nil {
		s.l.Warn("alerts.publish_error",
			applogger.String("area", area),
			applogger.Int("count", len(alerts)),
			applogger.Error(err))
	} else if s.l != nil {
		s.l.Info("alerts.published",
			applogger.String("area", area),
			applogger.Float64("velocity_score", v.Score),
			applogger.Int("count", len(alerts)))
	}
	return alerts
}
