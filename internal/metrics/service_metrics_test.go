package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewServiceMetrics_Records(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newServiceMetricsWithRegisterer(registry)

	m.RecordCustomerCreated()
	m.RecordProductCreated()
	m.RecordOrderCreated()
	m.RecordOrderRejected(RejectReasonInsufficientStock)
	m.RecordOrderDuration(50 * time.Millisecond)
	m.RecordStockDebited(3)
	m.RecordOutboxEvent()

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected registered metric families")
	}
}

// Повторная регистрация в одном registry возвращает существующие collectors, а не панику.
func TestNewServiceMetrics_AlreadyRegistered(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := newServiceMetricsWithRegisterer(registry)
	second := newServiceMetricsWithRegisterer(registry)

	if first == nil || second == nil {
		t.Fatal("expected both metric sets to initialize")
	}

	second.RecordOrderCreated()
}
