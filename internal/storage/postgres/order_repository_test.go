package postgres_test

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/storage/postgres"
)

func sampleOrder() domain.Order {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return domain.Order{
		ID:         "33333333-3333-3333-3333-333333333333",
		CustomerID: "11111111-1111-1111-1111-111111111111",
		Lines: []domain.OrderLine{
			{
				ID:         "44444444-4444-4444-4444-444444444444",
				ProductID:  "22222222-2222-2222-2222-222222222222",
				PriceMinor: 4500,
				Quantity:   3,
				CreatedAt:  now,
			},
		},
		CreatedAt: now,
	}
}

func TestOrderRepositoryCreate(t *testing.T) {
	store, mock := newMockStore(t)
	repo := postgres.NewOrderRepository(store)
	order := sampleOrder()
	line := order.Lines[0]

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(order.ID, order.CustomerID, order.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_lines").
		WithArgs(line.ID, order.ID, line.ProductID, line.PriceMinor, line.Quantity, line.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Create(order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderRepositoryCreateRollbackOnLineFailure(t *testing.T) {
	store, mock := newMockStore(t)
	repo := postgres.NewOrderRepository(store)
	order := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_lines").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	if err := repo.Create(order); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderRepositoryGet(t *testing.T) {
	store, mock := newMockStore(t)
	repo := postgres.NewOrderRepository(store)
	order := sampleOrder()
	line := order.Lines[0]

	mock.ExpectQuery("SELECT id, customer_id, created_at").
		WithArgs(order.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "created_at"}).
			AddRow(order.ID, order.CustomerID, order.CreatedAt))
	mock.ExpectQuery("SELECT id, product_id, price_minor, quantity, created_at").
		WithArgs(order.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "price_minor", "quantity", "created_at"}).
			AddRow(line.ID, line.ProductID, line.PriceMinor, line.Quantity, line.CreatedAt))

	found, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.ID != order.ID || len(found.Lines) != 1 {
		t.Fatalf("unexpected order: %+v", found)
	}
	if found.TotalMinor() != 3*4500 {
		t.Fatalf("unexpected total: %d", found.TotalMinor())
	}
}

func TestOrderRepositoryGetNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	repo := postgres.NewOrderRepository(store)

	mock.ExpectQuery("SELECT id, customer_id, created_at").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "created_at"}))

	if _, err := repo.Get("missing"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

// customer_id может быть NULL после удаления покупателя.
func TestOrderRepositoryGetOrphaned(t *testing.T) {
	store, mock := newMockStore(t)
	repo := postgres.NewOrderRepository(store)
	order := sampleOrder()

	mock.ExpectQuery("SELECT id, customer_id, created_at").
		WithArgs(order.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "created_at"}).
			AddRow(order.ID, nil, order.CreatedAt))
	mock.ExpectQuery("SELECT id, product_id, price_minor, quantity, created_at").
		WithArgs(order.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "price_minor", "quantity", "created_at"}))

	found, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.CustomerID != "" {
		t.Fatalf("expected empty customer id, got %q", found.CustomerID)
	}
}

func TestOrderRepositoryListByCustomer(t *testing.T) {
	store, mock := newMockStore(t)
	repo := postgres.NewOrderRepository(store)
	order := sampleOrder()
	line := order.Lines[0]

	mock.ExpectQuery("SELECT id, customer_id, created_at").
		WithArgs(order.CustomerID, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "created_at"}).
			AddRow(order.ID, order.CustomerID, order.CreatedAt))
	mock.ExpectQuery("SELECT id, product_id, price_minor, quantity, created_at").
		WithArgs(order.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "price_minor", "quantity", "created_at"}).
			AddRow(line.ID, line.ProductID, line.PriceMinor, line.Quantity, line.CreatedAt))

	list, err := repo.ListByCustomer(order.CustomerID, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != order.ID {
		t.Fatalf("unexpected list: %+v", list)
	}
}
