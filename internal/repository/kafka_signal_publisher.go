package repository

import (
	"context"

	"SwingSight/internal/domain/models"
	domrepo "SwingSight/internal/domain/repository"
	pkgkafka "SwingSight/pkg/kafka"
)

// KafkaSignalPublisher fans signal events out on a Kafka topic, keyed by
// symbol so one symbol's signals stay ordered within a partition.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) domrepo.SignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func (p *KafkaSignalPublisher) Publish(ctx context.Context, ev *models.SignalEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Symbol), ev)
}

func (p *KafkaSignalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
