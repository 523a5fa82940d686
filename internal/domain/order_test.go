package domain_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

// helper для создания базового заказа с одной позицией.
func makeOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:         "order-1",
		CustomerID: "customer-1",
		Lines: []domain.OrderLine{
			{
				ID:         "line-1",
				ProductID:  "product-1",
				PriceMinor: 500,
				Quantity:   3,
				CreatedAt:  now,
			},
		},
		CreatedAt: now,
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
	}{
		{
			name: "no customer",
			mut: func(o *domain.Order) {
				o.CustomerID = ""
			},
		},
		{
			name: "no lines",
			mut: func(o *domain.Order) {
				o.Lines = nil
			},
		},
		{
			name: "no product in line",
			mut: func(o *domain.Order) {
				o.Lines[0].ProductID = ""
			},
		},
		{
			name: "quantity invalid",
			mut: func(o *domain.Order) {
				o.Lines[0].Quantity = 0
			},
		},
		{
			name: "price invalid",
			mut: func(o *domain.Order) {
				o.Lines[0].PriceMinor = -5
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			tc.mut(&order)

			if len(order.ValidateInvariants()) == 0 {
				t.Fatalf("expected validation errors for case %s", tc.name)
			}
		})
	}
}

func TestOrderTotalMinor(t *testing.T) {
	order := makeOrder()
	order.Lines = append(order.Lines, domain.OrderLine{
		ID:         "line-2",
		ProductID:  "product-2",
		PriceMinor: 250,
		Quantity:   2,
		CreatedAt:  order.CreatedAt,
	})

	if total := order.TotalMinor(); total != 3*500+2*250 {
		t.Fatalf("expected total 2000, got %d", total)
	}
}
