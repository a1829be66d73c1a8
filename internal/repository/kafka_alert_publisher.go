package repository

import (
	"context"

	"Voxmill/internal/domain/models"
	pkgkafka "Voxmill/pkg/kafka"
	applogger "Voxmill/pkg/logger"
)

// KafkaAlertPublisher implements AlertPublisher over a Kafka producer.
// Alerts are keyed by area so per-area ordering is preserved downstream.
type KafkaAlertPublisher struct {
	producer *pkgkafka.Producer
	topic    string
	l        *applogger.Logger
}

func NewKafkaAlertPublisher(producer *pkgkafka.Producer, topic string) *KafkaAlertPublisher {
	return &KafkaAlertPublisher{producer: producer, topic: topic}
}

// SetLogger injects a structured logger.
func (p *KafkaAlertPublisher) SetLogger(l *applogger.Logger) { p.l = l }

func (p *KafkaAlertPublisher) Publish(ctx context.Context, alert models.VelocityAlert) error {
	err := p.producer.Publish(ctx, p.topic, []byte(alert.Area), alert)
	if err != nil && p.l != nil {
		p.l.Error("alert publish failed",
			applogger.String("area", alert.Area),
			applogger.String("type", alert.Type),
			applogger.Error(err),
		)
	}
	return err
}

func (p *KafkaAlertPublisher) PublishBatch(ctx context.Context, alerts []models.VelocityAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(alerts))
	for _, a := range alerts {
		msgs = append(msgs, pkgkafka.Message{Key: []byte(a.Area), Value: a})
	}
	err := p.producer.PublishBatch(ctx, p.topic, msgs)
	if err != nil && p.l != nil {
		p.l.Error("alert batch publish failed",
			applogger.Int("alerts", len(alerts)),
			applogger.Error(err),
		)
	}
	return err
}

func (p *KafkaAlertPublisher) PublishMarket(ctx context.Context, alerts []models.MarketAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(alerts))
	for _, a := range alerts {
		msgs = append(msgs, pkgkafka.Message{Key: []byte(a.Area), Value: a})
	}
	err := p.producer.PublishBatch(ctx, p.topic, msgs)
	if err != nil && p.l != nil {
		p.l.Error("market alert publish failed",
			applogger.Int("alerts", len(alerts)),
			applogger.Error(err),
		)
	}
	return err
}

func (p *KafkaAlertPublisher) Close() error {
	return p.producer.Close()
}

// NopAlertPublisher drops alerts. Used when alert delivery is disabled in
// configuration.
type NopAlertPublisher struct{}

func (NopAlertPublisher) Publish(context.Context, models.VelocityAlert) error { return nil }

func (NopAlertPublisher) PublishBatch(context.Context, []models.VelocityAlert) error { return nil }

func (NopAlertPublisher) PublishMarket(context.Context, []models.MarketAlert) error { return nil }

func (NopAlertPublisher) Close() error { return nil }
