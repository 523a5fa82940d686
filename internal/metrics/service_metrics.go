package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Причины отказа при создании заказа (label reason).
const (
	RejectReasonUnknownCustomer   = "unknown_customer"
	RejectReasonUnknownProduct    = "unknown_product"
	RejectReasonInsufficientStock = "insufficient_stock"
	RejectReasonInternal          = "internal"
)

// ServiceMetrics содержит метрики сервисов создания покупателей, товаров и заказов.
type ServiceMetrics struct {
	customersCreated prometheus.Counter
	productsCreated  prometheus.Counter
	ordersCreated    prometheus.Counter
	ordersRejected   *prometheus.CounterVec

	orderDuration prometheus.Histogram
	stockDebited  prometheus.Counter
	outboxEvents  prometheus.Counter
}

// NewServiceMetrics создаёт метрики сервисов в default registry.
func NewServiceMetrics() *ServiceMetrics {
	return newServiceMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newServiceMetricsWithRegisterer(registerer prometheus.Registerer) *ServiceMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ServiceMetrics{
		customersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "sales_customers_created_total",
			Help: "Total number of customers created",
		}),
		productsCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "sales_products_created_total",
			Help: "Total number of products created",
		}),
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "sales_orders_created_total",
			Help: "Total number of orders created",
		}),
		ordersRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "sales_orders_rejected_total",
			Help: "Total number of rejected order requests grouped by reason",
		}, []string{"reason"}),
		orderDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "sales_order_create_duration_seconds",
			Help:    "Duration of order creation in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		stockDebited: registerCounter(registerer, prometheus.CounterOpts{
			Name: "sales_stock_debited_units_total",
			Help: "Total number of stock units debited by orders",
		}),
		outboxEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "sales_outbox_events_total",
			Help: "Total number of events enqueued to transactional outbox",
		}),
	}
}

// RecordCustomerCreated увеличивает счётчик созданных покупателей.
func (m *ServiceMetrics) RecordCustomerCreated() {
	m.customersCreated.Inc()
}

// RecordProductCreated увеличивает счётчик созданных товаров.
func (m *ServiceMetrics) RecordProductCreated() {
	m.productsCreated.Inc()
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *ServiceMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordOrderRejected увеличивает счётчик отказов с указанной причиной.
func (m *ServiceMetrics) RecordOrderRejected(reason string) {
	m.ordersRejected.WithLabelValues(reason).Inc()
}

// RecordOrderDuration записывает время обработки запроса на создание заказа.
func (m *ServiceMetrics) RecordOrderDuration(duration time.Duration) {
	m.orderDuration.Observe(duration.Seconds())
}

// RecordStockDebited увеличивает счётчик списанных единиц остатка.
func (m *ServiceMetrics) RecordStockDebited(units int64) {
	m.stockDebited.Add(float64(units))
}

// RecordOutboxEvent увеличивает счётчик событий, поставленных в outbox.
func (m *ServiceMetrics) RecordOutboxEvent() {
	m.outboxEvents.Inc()
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}
