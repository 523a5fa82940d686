package customers_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/service/customers"
	"github.com/vladislavdragonenkov/sales/internal/storage/memory"
)

func TestCreateCustomer(t *testing.T) {
	repo := memory.NewCustomerRepository()
	outbox := memory.NewOutboxRepository()
	service := customers.NewCreateService(repo, outbox, nil)

	customer, err := service.Execute("Ada Lovelace", "ada@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer.ID == "" {
		t.Fatal("expected generated customer id")
	}
	if customer.Name != "Ada Lovelace" || customer.Email != "ada@example.com" {
		t.Fatalf("unexpected customer: %+v", customer)
	}
	if customer.CreatedAt.IsZero() || customer.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC creation time, got %v", customer.CreatedAt)
	}

	stored, err := repo.FindByID(customer.ID)
	if err != nil {
		t.Fatalf("expected customer to be persisted: %v", err)
	}
	if stored.Email != customer.Email {
		t.Fatalf("unexpected stored customer: %+v", stored)
	}

	pending, err := outbox.PullPending(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 outbox event, got %d", len(pending))
	}
	if pending[0].EventType != "customer.created" || pending[0].AggregateID != customer.ID {
		t.Fatalf("unexpected outbox event: %+v", pending[0])
	}
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	repo := memory.NewCustomerRepository()
	service := customers.NewCreateService(repo, nil, nil)

	if _, err := service.Execute("Ada Lovelace", "ada@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := service.Execute("Another Ada", "ada@example.com")
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestCreateCustomerValidation(t *testing.T) {
	service := customers.NewCreateService(memory.NewCustomerRepository(), nil, nil)

	if _, err := service.Execute("", "ada@example.com"); !errors.Is(err, domain.ErrCustomerNameRequired) {
		t.Fatalf("expected ErrCustomerNameRequired, got %v", err)
	}
	if _, err := service.Execute("Ada Lovelace", ""); !errors.Is(err, domain.ErrCustomerEmailRequired) {
		t.Fatalf("expected ErrCustomerEmailRequired, got %v", err)
	}
}

func TestCreateCustomerWithoutOutbox(t *testing.T) {
	service := customers.NewCreateService(memory.NewCustomerRepository(), nil, nil)

	if _, err := service.Execute("Grace Hopper", "grace@example.com"); err != nil {
		t.Fatalf("unexpected error without outbox: %v", err)
	}
}
