package products

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/sales/internal/metrics"
)

// CreateService добавляет товар в каталог, отклоняя занятые имена.
type CreateService struct {
	products domain.ProductRepository
	outbox   domain.OutboxRepository
	logger   *log.Entry
	metrics  *metrics.ServiceMetrics
}

// NewCreateService конструирует сервис с зависимостями. outbox может быть nil.
func NewCreateService(products domain.ProductRepository, outbox domain.OutboxRepository, logger *log.Entry) *CreateService {
	if logger == nil {
		logger = log.New().WithField("component", "create-product")
	}
	return &CreateService{
		products: products,
		outbox:   outbox,
		logger:   logger,
		metrics:  metrics.NewServiceMetrics(),
	}
}

// Execute проверяет уникальность имени и сохраняет товар.
func (s *CreateService) Execute(name string, priceMinor int64, quantity int32) (domain.Product, error) {
	candidate := domain.Product{Name: name, PriceMinor: priceMinor, Quantity: quantity}
	if errs := candidate.ValidateInvariants(); len(errs) > 0 {
		return domain.Product{}, errors.Join(errs...)
	}

	_, err := s.products.FindByName(name)
	switch {
	case err == nil:
		return domain.Product{}, domain.ErrProductNameTaken
	case !errors.Is(err, domain.ErrProductNotFound):
		return domain.Product{}, fmt.Errorf("lookup product by name: %w", err)
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:         uuid.NewString(),
		Name:       name,
		PriceMinor: priceMinor,
		Quantity:   quantity,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.products.Create(product); err != nil {
		s.logger.WithError(err).WithField("name", name).Error("failed to create product")
		if errors.Is(err, domain.ErrProductNameTaken) {
			return domain.Product{}, domain.ErrProductNameTaken
		}
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}

	s.metrics.RecordProductCreated()
	s.enqueueCreatedEvent(product)

	return product, nil
}

func (s *CreateService) enqueueCreatedEvent(product domain.Product) {
	if s.outbox == nil {
		return
	}

	event := kafka.NewProductEvent(kafka.EventTypeProductCreated, product.ID, product.Name)
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.WithError(err).WithField("product_id", product.ID).Warn("failed to marshal product event")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: kafka.AggregateProduct,
		AggregateID:   product.ID,
		EventType:     string(kafka.EventTypeProductCreated),
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).WithField("product_id", product.ID).Warn("failed to enqueue product event")
		return
	}

	s.metrics.RecordOutboxEvent()
}
