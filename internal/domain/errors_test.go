package domain_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

func TestInsufficientStockError_Message(t *testing.T) {
	err := &domain.InsufficientStockError{Product: "Keyboard", Requested: 8, Available: 7}

	msg := err.Error()
	if !strings.Contains(msg, "Keyboard") || !strings.Contains(msg, "8 ordered") || !strings.Contains(msg, "7 in stock") {
		t.Fatalf("unexpected error message: %s", msg)
	}
}

func TestIsInsufficientStock(t *testing.T) {
	err := fmt.Errorf("create order: %w", &domain.InsufficientStockError{Product: "p", Requested: 2, Available: 1})
	if !domain.IsInsufficientStock(err) {
		t.Fatal("expected wrapped insufficient stock error to be detected")
	}

	if domain.IsInsufficientStock(domain.ErrProductNotFound) {
		t.Fatal("sentinel error must not be treated as insufficient stock")
	}
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	sentinels := []error{
		domain.ErrEmailTaken,
		domain.ErrCustomerNotFound,
		domain.ErrProductNotFound,
		domain.ErrOrderNotFound,
		domain.ErrNotFound,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Fatalf("sentinel %v must not match %v", a, b)
			}
		}
	}
}
