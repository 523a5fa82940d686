package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

// OutboxTopicPublisher публикует outbox-сообщения в Kafka, выбирая topic
// по типу агрегата сообщения.
type OutboxTopicPublisher struct {
	producer *Producer
}

// NewOutboxPublisher создаёт Kafka-паблишер для transactional outbox.
func NewOutboxPublisher(producer *Producer) domain.OutboxPublisher {
	return &OutboxTopicPublisher{producer: producer}
}

func (p *OutboxTopicPublisher) Publish(event domain.OutboxMessage) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka outbox publisher is not initialized")
	}

	key := event.AggregateID
	if key == "" {
		key = event.ID
	}

	envelope := struct {
		ID            string          `json:"id"`
		AggregateType string          `json:"aggregate_type"`
		AggregateID   string          `json:"aggregate_id"`
		EventType     string          `json:"event_type"`
		Payload       json.RawMessage `json:"payload"`
		PublishedAt   time.Time       `json:"published_at"`
	}{
		ID:            event.ID,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		EventType:     event.EventType,
		Payload:       json.RawMessage(event.Payload),
		PublishedAt:   time.Now().UTC(),
	}

	return p.producer.PublishEvent(TopicForAggregate(event.AggregateType), key, envelope)
}

// DLQPublisher публикует сообщения в dead letter queue.
type DLQPublisher struct {
	producer *Producer
}

// NewDLQPublisher создаёт publisher для DLQ-топика.
func NewDLQPublisher(producer *Producer) domain.OutboxPublisher {
	return &DLQPublisher{producer: producer}
}

func (p *DLQPublisher) Publish(event domain.OutboxMessage) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka dlq publisher is not initialized")
	}

	key := event.AggregateID
	if key == "" {
		key = event.ID
	}
	return p.producer.PublishEvent(TopicDeadLetterQueue, key, json.RawMessage(event.Payload))
}

var (
	_ domain.OutboxPublisher = (*OutboxTopicPublisher)(nil)
	_ domain.OutboxPublisher = (*DLQPublisher)(nil)
)
