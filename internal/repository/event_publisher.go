package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"AstroChart/internal/domain/models"
	"AstroChart/pkg/kafka"
)

// KafkaEventPublisher emits exact transit events to a Kafka topic, one
// message per event, keyed by the transiting body for stable
// partitioning per body.
type KafkaEventPublisher struct {
	producer *kafka.Producer
}

// NewKafkaEventPublisher wraps a producer.
func NewKafkaEventPublisher(producer *kafka.Producer) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer}
}

func (p *KafkaEventPublisher) PublishTransitEvents(ctx context.Context, events []models.TransitEvent) error {
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal transit event: %w", err)
		}
		if err := p.producer.Publish(ctx, []byte(event.Transiting), payload); err != nil {
			return fmt.Errorf("publish transit event: %w", err)
		}
	}
	return nil
}

func (p *KafkaEventPublisher) Close() error {
	return p.producer.Close()
}

// NoopEventPublisher drops events. Used when eventing is disabled.
type NoopEventPublisher struct{}

func (NoopEventPublisher) PublishTransitEvents(context.Context, []models.TransitEvent) error {
	return nil
}

func (NoopEventPublisher) Close() error { return nil }
