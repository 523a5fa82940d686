package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/storage/memory"
	"github.com/vladislavdragonenkov/sales/internal/storage/postgres"
)

// Dependencies содержит хранилища и сквозные зависимости приложения.
type Dependencies struct {
	Customers   domain.CustomerRepository
	Products    domain.ProductRepository
	Orders      domain.OrderRepository
	Outbox      domain.OutboxRepository
	Idempotency domain.IdempotencyRepository
	Logger      *log.Entry
}

// NewDependencies собирает in-memory зависимости. Используется при запуске
// без PostgreSQL и в тестах.
func NewDependencies(logger *log.Entry) *Dependencies {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	return &Dependencies{
		Customers:   memory.NewCustomerRepository(),
		Products:    memory.NewProductRepository(),
		Orders:      memory.NewOrderRepository(),
		Outbox:      memory.NewOutboxRepository(),
		Idempotency: memory.NewIdempotencyRepository(),
		Logger:      logger,
	}
}

// NewPostgresDependencies собирает зависимости поверх PostgreSQL-хранилища.
func NewPostgresDependencies(store *postgres.Store, logger *log.Entry) *Dependencies {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	return &Dependencies{
		Customers:   postgres.NewCustomerRepository(store),
		Products:    postgres.NewProductRepository(store),
		Orders:      postgres.NewOrderRepository(store),
		Outbox:      postgres.NewOutboxRepository(store),
		Idempotency: postgres.NewIdempotencyRepository(store),
		Logger:      logger,
	}
}
