package repository

import (
	"context"
	"fmt"

	"AlertHub/internal/domain/models"
	domainrepo "AlertHub/internal/domain/repository"
	pkgkafka "AlertHub/pkg/kafka"
)

// KafkaTriggerPublisher implements TriggerPublisher over a Kafka topic.
// Messages are keyed by symbol so per-symbol ordering survives partitioning.
type KafkaTriggerPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaTriggerPublisher creates a publisher for the given topic.
func NewKafkaTriggerPublisher(producer *pkgkafka.Producer, topic string) *KafkaTriggerPublisher {
	return &KafkaTriggerPublisher{producer: producer, topic: topic}
}

// PublishTriggers emits one event per triggered alert in a single batch.
func (p *KafkaTriggerPublisher) PublishTriggers(ctx context.Context, kind domainrepo.Kind, alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	msgs := make([]pkgkafka.Message, 0, len(alerts))
	for _, a := range alerts {
		event := models.TriggerEvent{
			Kind:           string(kind),
			ID:             a.ID,
			Symbol:         a.Symbol,
			Name:           a.Name,
			Price:          a.Price,
			AnchorPrice:    a.AnchorPrice,
			ActivationTime: a.ActivationTime,
		}
		msgs = append(msgs, pkgkafka.Message{Key: []byte(a.Symbol), Value: event})
	}

	if err := p.producer.PublishBatch(ctx, p.topic, msgs); err != nil {
		return fmt.Errorf("publish %d trigger events: %w", len(msgs), err)
	}
	return nil
}

// Close closes the underlying producer.
func (p *KafkaTriggerPublisher) Close() error {
	return p.producer.Close()
}
