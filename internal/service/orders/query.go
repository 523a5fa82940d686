package orders

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

// DefaultListLimit ограничивает выдачу истории заказов, если лимит не задан.
const DefaultListLimit = 50

// QueryService отвечает за чтение заказов.
type QueryService struct {
	orders domain.OrderRepository
	logger *log.Entry
}

// NewQueryService конструирует сервис чтения заказов.
func NewQueryService(orders domain.OrderRepository, logger *log.Entry) *QueryService {
	if logger == nil {
		logger = log.New().WithField("component", "query-order")
	}
	return &QueryService{orders: orders, logger: logger}
}

// Get возвращает заказ по идентификатору.
func (s *QueryService) Get(orderID string) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	order, err := s.orders.Get(orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// ListByCustomer возвращает заказы покупателя от новых к старым.
func (s *QueryService) ListByCustomer(customerID string, limit int) ([]domain.Order, error) {
	if customerID == "" {
		return nil, domain.ErrOrderCustomerRequired
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	list, err := s.orders.ListByCustomer(customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return list, nil
}
