package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Voxmill/internal/domain/models"
)

type stubDeliverer struct {
	delivered []models.VelocityAlert
	err       error
}

func (d *stubDeliverer) Deliver(_ context.Context, alerts []models.VelocityAlert) error {
	d.delivered = append(d.delivered, alerts...)
	return d.err
}

func calmReading() models.VelocitySnapshot {
	return models.VelocitySnapshot{
		Score: 50,
		Class: models.VelocityModerate,
		Components: models.VelocityComponents{
			TurnoverRate:      20,
			PriceDynamismRate: 20,
			AbsorptionRate:    15,
		},
		Momentum: models.VelocityMomentum{Direction: models.MomentumStable},
	}
}

func TestDetectNoAlertsOnCalmMarket(t *testing.T) {
	s := NewAlertService(nil)
	assert.Empty(t, s.Detect("mayfair", calmReading()))
}

func TestDetectDeceleration(t *testing.T) {
	s := NewAlertService(nil)

	v := calmReading()
	v.Momentum = models.VelocityMomentum{Direction: models.MomentumDecelerating, Pct: 18}

	alerts := s.Detect("mayfair", v)
	require.Len(t, alerts, 1)
	assert.Equal(t, "velocity_deceleration", alerts[0].Type)
	assert.Equal(t, models.SeverityMedium, alerts[0].Severity)
	assert.InDelta(t, 0.82, alerts[0].Confidence, 1e-9)
	assert.NotEmpty(t, alerts[0].ID)
	assert.False(t, alerts[0].CreatedAt.IsZero())
}

func TestDetectSevereDeceleration(t *testing.T) {
	s := NewAlertService(nil)

	v := calmReading()
	v.Momentum = models.VelocityMomentum{Direction: models.MomentumDecelerating, Pct: 30}

	alerts := s.Detect("mayfair", v)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.SeverityHigh, alerts[0].Severity)
}

func TestDetectAcceleration(t *testing.T) {
	s := NewAlertService(nil)

	v := calmReading()
	v.Momentum = models.VelocityMomentum{Direction: models.MomentumAccelerating, Pct: 20}

	alerts := s.Detect("mayfair", v)
	require.Len(t, alerts, 1)
	assert.Equal(t, "velocity_acceleration", alerts[0].Type)
	assert.InDelta(t, 0.78, alerts[0].Confidence, 1e-9)
}

func TestDetectMarketFreeze(t *testing.T) {
	s := NewAlertService(nil)

	v := calmReading()
	v.Score = 12
	v.Class = models.VelocityFrozen

	alerts := s.Detect("mayfair", v)
	require.Len(t, alerts, 1)
	assert.Equal(t, "market_freeze", alerts[0].Type)
	assert.Equal(t, models.SeverityCritical, alerts[0].Severity)
	assert.Contains(t, alerts[0].Message, "12.0/100")
}

func TestDetectAbsorptionCollapse(t *testing.T) {
	s := NewAlertService(nil)

	v := calmReading()
	v.Components.AbsorptionRate = 3.5

	alerts := s.Detect("mayfair", v)
	require.Len(t, alerts, 1)
	assert.Equal(t, "absorption_collapse", alerts[0].Type)
	assert.Equal(t, models.SeverityHigh, alerts[0].Severity)
}

func TestDetectPotentialBubble(t *testing.T) {
	s := NewAlertService(nil)

	v := calmReading()
	v.Components.TurnoverRate = 45
	v.Components.PriceDynamismRate = 10

	alerts := s.Detect("mayfair", v)
	require.Len(t, alerts, 1)
	assert.Equal(t, "potential_bubble", alerts[0].Type)
	assert.InDelta(t, 0.65, alerts[0].Confidence, 1e-9)
}

func TestDetectMultipleConditions(t *testing.T) {
	s := NewAlertService(nil)

	v := calmReading()
	v.Score = 8
	v.Class = models.VelocityFrozen
	v.Components.AbsorptionRate = 2
	v.Momentum = models.VelocityMomentum{Direction: models.MomentumDecelerating, Pct: 28}

	alerts := s.Detect("mayfair", v)
	assert.Len(t, alerts, 3)
}

func TestDetectAndPublishDelivers(t *testing.T) {
	d := &stubDeliverer{}
	s := NewAlertService(d)

	v := calmReading()
	v.Class = models.VelocityFrozen

	alerts := s.DetectAndPublish(context.Background(), "mayfair", v)
	require.Len(t, alerts, 1)
	require.Len(t, d.delivered, 1)
	assert.Equal(t, "mayfair", d.delivered[0].Area)
}
