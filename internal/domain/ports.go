package domain

import "time"

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// IdempotencyRepository хранит состояние обработки запросов по idempotency-key.
type IdempotencyRepository interface {
	CreateProcessing(key, requestHash string, ttlAt time.Time) (IdempotencyRecord, error)
	Get(key string) (IdempotencyRecord, error)
	MarkDone(key string, responseBody []byte, httpStatus int) error
	MarkFailed(key string, responseBody []byte, httpStatus int) error
	DeleteExpired(before time.Time, limit int) (int, error)
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
