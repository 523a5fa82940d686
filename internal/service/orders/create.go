package orders

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

// CreateService оформляет заказ: проверяет покупателя и товары, фиксирует
// цены на момент покупки, сохраняет заказ и списывает остатки.
type CreateService struct {
	customers domain.CustomerRepository
	products  domain.ProductRepository
	orders    domain.OrderRepository
	outbox    domain.OutboxRepository
	logger    *log.Entry
	metrics   *metrics.ServiceMetrics
}

// NewCreateService конструирует сервис оформления заказа. outbox может быть nil.
func NewCreateService(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *CreateService {
	if logger == nil {
		logger = log.New().WithField("component", "create-order")
	}
	return &CreateService{
		customers: customers,
		products:  products,
		orders:    orders,
		outbox:    outbox,
		logger:    logger,
		metrics:   metrics.NewServiceMetrics(),
	}
}

// Execute выполняет оформление заказа. Шаги идут строго последовательно,
// первая ошибка прерывает обработку:
//
//  1. покупатель должен существовать;
//  2. каждый запрошенный id товара должен быть зарегистрирован, повторы id
//     в запросе считаются нехваткой товаров;
//  3. запрошенное количество не должно превышать остаток;
//  4. заказ сохраняется с ценами из каталога на момент оформления;
//  5. остатки списываются по каждой позиции.
func (s *CreateService) Execute(customerID string, requested []domain.ProductQuantity) (domain.Order, error) {
	started := time.Now()
	defer func() {
		s.metrics.RecordOrderDuration(time.Since(started))
	}()

	if customerID == "" {
		s.metrics.RecordOrderRejected(metrics.RejectReasonUnknownCustomer)
		return domain.Order{}, domain.ErrOrderCustomerRequired
	}
	if len(requested) == 0 {
		s.metrics.RecordOrderRejected(metrics.RejectReasonInternal)
		return domain.Order{}, domain.ErrOrderLinesRequired
	}

	customer, err := s.customers.FindByID(customerID)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			s.metrics.RecordOrderRejected(metrics.RejectReasonUnknownCustomer)
			return domain.Order{}, domain.ErrCustomerNotFound
		}
		s.metrics.RecordOrderRejected(metrics.RejectReasonInternal)
		return domain.Order{}, fmt.Errorf("lookup customer: %w", err)
	}

	ids := make([]string, 0, len(requested))
	for _, item := range requested {
		ids = append(ids, item.ProductID)
	}

	catalog, err := s.products.FindAllByID(ids)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.metrics.RecordOrderRejected(metrics.RejectReasonUnknownProduct)
			return domain.Order{}, domain.ErrProductNotFound
		}
		s.metrics.RecordOrderRejected(metrics.RejectReasonInternal)
		return domain.Order{}, fmt.Errorf("lookup products: %w", err)
	}
	// Повторный id в запросе даёт меньше найденных товаров, чем позиций.
	if len(catalog) != len(requested) {
		s.metrics.RecordOrderRejected(metrics.RejectReasonUnknownProduct)
		return domain.Order{}, domain.ErrProductNotFound
	}

	byID := make(map[string]domain.Product, len(catalog))
	for _, product := range catalog {
		byID[product.ID] = product
	}

	now := time.Now().UTC()
	lines := make([]domain.OrderLine, 0, len(requested))
	for _, item := range requested {
		product, ok := byID[item.ProductID]
		if !ok {
			s.metrics.RecordOrderRejected(metrics.RejectReasonUnknownProduct)
			return domain.Order{}, domain.ErrProductNotFound
		}

		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		if quantity > product.Quantity {
			s.metrics.RecordOrderRejected(metrics.RejectReasonInsufficientStock)
			return domain.Order{}, &domain.InsufficientStockError{
				Product:   product.Name,
				Requested: quantity,
				Available: product.Quantity,
			}
		}

		lines = append(lines, domain.OrderLine{
			ID:         uuid.NewString(),
			ProductID:  product.ID,
			PriceMinor: product.PriceMinor,
			Quantity:   quantity,
			CreatedAt:  now,
		})
	}

	order := domain.Order{
		ID:         uuid.NewString(),
		CustomerID: customer.ID,
		Lines:      lines,
		CreatedAt:  now,
	}

	if err := s.orders.Create(order); err != nil {
		s.logger.WithError(err).WithField("customer_id", customer.ID).Error("failed to persist order")
		s.metrics.RecordOrderRejected(metrics.RejectReasonInternal)
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	// TODO: сохранение заказа и списание остатков не связаны общей транзакцией —
	// при ошибке ниже заказ остаётся сохранённым, а остатки не списанными.
	decrements := make([]domain.ProductQuantity, 0, len(lines))
	var debitedUnits int64
	for _, line := range lines {
		decrements = append(decrements, domain.ProductQuantity{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
		debitedUnits += int64(line.Quantity)
	}
	if _, err := s.products.UpdateQuantity(decrements); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to debit stock for persisted order")
		s.metrics.RecordOrderRejected(metrics.RejectReasonInternal)
		return domain.Order{}, fmt.Errorf("debit stock: %w", err)
	}

	s.metrics.RecordOrderCreated()
	s.metrics.RecordStockDebited(debitedUnits)
	s.enqueueCreatedEvent(order)

	s.logger.WithFields(log.Fields{
		"order_id":    order.ID,
		"customer_id": customer.ID,
		"lines":       len(order.Lines),
		"total_minor": order.TotalMinor(),
	}).Info("order created")

	return order, nil
}

// enqueueCreatedEvent кладёт событие order.created в outbox. Ошибка постановки
// логируется и не влияет на результат запроса.
func (s *CreateService) enqueueCreatedEvent(order domain.Order) {
	if s.outbox == nil {
		return
	}

	eventLines := make([]kafka.OrderEventLine, 0, len(order.Lines))
	for _, line := range order.Lines {
		eventLines = append(eventLines, kafka.OrderEventLine{
			ProductID:  line.ProductID,
			PriceMinor: line.PriceMinor,
			Quantity:   line.Quantity,
		})
	}

	event := kafka.NewOrderEvent(kafka.EventTypeOrderCreated, order.ID, order.CustomerID, order.TotalMinor(), eventLines)
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to marshal order event")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: kafka.AggregateOrder,
		AggregateID:   order.ID,
		EventType:     string(kafka.EventTypeOrderCreated),
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to enqueue order event")
		return
	}

	s.metrics.RecordOutboxEvent()
}
