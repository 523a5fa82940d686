package kafka

import "time"

// EventType определяет тип доменного события.
type EventType string

const (
	// EventTypeCustomerCreated публикуется после регистрации покупателя.
	EventTypeCustomerCreated EventType = "customer.created"
	// EventTypeProductCreated публикуется после добавления товара в каталог.
	EventTypeProductCreated EventType = "product.created"
	// EventTypeOrderCreated публикуется после создания заказа и списания остатков.
	EventTypeOrderCreated EventType = "order.created"
)

// Topics для Kafka.
const (
	TopicCustomerEvents  = "sales.customer.events"
	TopicProductEvents   = "sales.product.events"
	TopicOrderEvents     = "sales.order.events"
	TopicDeadLetterQueue = "sales.dlq"
)

// Aggregate types для маршрутизации outbox-сообщений по топикам.
const (
	AggregateCustomer = "customer"
	AggregateProduct  = "product"
	AggregateOrder    = "order"
)

// CustomerEvent представляет событие покупателя.
type CustomerEvent struct {
	EventType  EventType `json:"event_type"`
	CustomerID string    `json:"customer_id"`
	Email      string    `json:"email"`
	Timestamp  time.Time `json:"timestamp"`
}

// OrderEventLine — позиция заказа в составе события.
type OrderEventLine struct {
	ProductID  string `json:"product_id"`
	PriceMinor int64  `json:"price_minor"`
	Quantity   int32  `json:"quantity"`
}

// OrderEvent представляет событие заказа.
type OrderEvent struct {
	EventType  EventType        `json:"event_type"`
	OrderID    string           `json:"order_id"`
	CustomerID string           `json:"customer_id"`
	TotalMinor int64            `json:"total_minor"`
	Lines      []OrderEventLine `json:"lines,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}

// ProductEvent представляет событие товара.
type ProductEvent struct {
	EventType EventType `json:"event_type"`
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// NewCustomerEvent создаёт событие покупателя.
func NewCustomerEvent(eventType EventType, customerID, email string) *CustomerEvent {
	return &CustomerEvent{
		EventType:  eventType,
		CustomerID: customerID,
		Email:      email,
		Timestamp:  time.Now().UTC(),
	}
}

// NewOrderEvent создаёт событие заказа.
func NewOrderEvent(eventType EventType, orderID, customerID string, totalMinor int64, lines []OrderEventLine) *OrderEvent {
	return &OrderEvent{
		EventType:  eventType,
		OrderID:    orderID,
		CustomerID: customerID,
		TotalMinor: totalMinor,
		Lines:      lines,
		Timestamp:  time.Now().UTC(),
	}
}

// NewProductEvent создаёт событие товара.
func NewProductEvent(eventType EventType, productID, name string) *ProductEvent {
	return &ProductEvent{
		EventType: eventType,
		ProductID: productID,
		Name:      name,
		Timestamp: time.Now().UTC(),
	}
}

// TopicForAggregate возвращает topic для данного типа агрегата.
func TopicForAggregate(aggregateType string) string {
	switch aggregateType {
	case AggregateCustomer:
		return TopicCustomerEvents
	case AggregateProduct:
		return TopicProductEvents
	default:
		return TopicOrderEvents
	}
}
