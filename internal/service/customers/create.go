package customers

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

// CreateService регистрирует нового покупателя, отклоняя занятые email.
type CreateService struct {
	customers domain.CustomerRepository
	outbox    domain.OutboxRepository
	logger    *log.Entry
	metrics   *metrics.ServiceMetrics
}

// NewCreateService конструирует сервис с зависимостями. outbox может быть nil —
// тогда события не публикуются.
func NewCreateService(customers domain.CustomerRepository, outbox domain.OutboxRepository, logger *log.Entry) *CreateService {
	if logger == nil {
		logger = log.New().WithField("component", "create-customer")
	}
	return &CreateService{
		customers: customers,
		outbox:    outbox,
		logger:    logger,
		metrics:   metrics.NewServiceMetrics(),
	}
}

// Execute проверяет уникальность email и сохраняет покупателя.
// При занятом email возвращает ErrEmailTaken и не выполняет запись.
func (s *CreateService) Execute(name, email string) (domain.Customer, error) {
	candidate := domain.Customer{Name: name, Email: email}
	if errs := candidate.ValidateInvariants(); len(errs) > 0 {
		return domain.Customer{}, errors.Join(errs...)
	}

	_, err := s.customers.FindByEmail(email)
	switch {
	case err == nil:
		return domain.Customer{}, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrCustomerNotFound):
		return domain.Customer{}, fmt.Errorf("lookup customer by email: %w", err)
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.customers.Create(customer); err != nil {
		s.logger.WithError(err).WithField("email", email).Error("failed to create customer")
		if errors.Is(err, domain.ErrEmailTaken) {
			return domain.Customer{}, domain.ErrEmailTaken
		}
		return domain.Customer{}, fmt.Errorf("create customer: %w", err)
	}

	s.metrics.RecordCustomerCreated()
	s.enqueueCreatedEvent(customer)

	return customer, nil
}

// enqueueCreatedEvent кладёт событие customer.created в outbox. Ошибка постановки
// логируется и не влияет на результат запроса.
func (s *CreateService) enqueueCreatedEvent(customer domain.Customer) {
	if s.outbox == nil {
		return
	}

	event := kafka.NewCustomerEvent(kafka.EventTypeCustomerCreated, customer.ID, customer.Email)
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", customer.ID).Warn("failed to marshal customer event")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: kafka.AggregateCustomer,
		AggregateID:   customer.ID,
		EventType:     string(kafka.EventTypeCustomerCreated),
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).WithField("customer_id", customer.ID).Warn("failed to enqueue customer event")
		return
	}

	s.metrics.RecordOutboxEvent()
}
