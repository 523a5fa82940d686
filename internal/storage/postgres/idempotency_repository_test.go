package postgres_test

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/storage/postgres"
)

var idempotencyColumns = []string{
	"key", "request_hash", "response_body", "http_status", "status", "ttl_at", "created_at", "updated_at",
}

func TestIdempotencyRepositoryCreateProcessing(t *testing.T) {
	store, mock := newMockStore(t)
	repo := postgres.NewIdempotencyRepository(store)

	mock.ExpectExec("INSERT INTO idempotency_keys").
		WillReturnResult(sqlmock.NewResult(0, 1))

	record, err := repo.CreateProcessing("key-1", "hash-1", time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Status != domain.IdempotencyStatusProcessing {
		t.Fatalf("unexpected status: %s", record.Status)
	}
	if record.TTLAt.IsZero() {
		t.Fatal("expected default ttl to be set")
	}
}

func TestIdempotencyRepositoryCreateProcessingHashMismatch(t *testing.T) {
	store, mock := newMockStore(t)
	repo := postgres.NewIdempotencyRepository(store)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO idempotency_keys").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idempotency_keys_pkey"})
	mock.ExpectQuery("SELECT key, request_hash, response_body, http_status, status, ttl_at, created_at, updated_at").
		WithArgs("key-1").
		WillReturnRows(sqlmock.NewRows(idempotencyColumns).
			AddRow("key-1", "other-hash", nil, nil, "done", now.Add(time.Hour), now, now))

	if _, err := repo.CreateProcessing("key-1", "hash-1", time.Time{}); !errors.Is(err, domain.ErrIdempotencyHashMismatch) {
		t.Fatalf("expected ErrIdempotencyHashMismatch, got %v", err)
	}
}

func TestIdempotencyRepositoryGetNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	repo := postgres.NewIdempotencyRepository(store)

	mock.ExpectQuery("SELECT key, request_hash, response_body, http_status, status, ttl_at, created_at, updated_at").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(idempotencyColumns))

	if _, err := repo.Get("missing"); !errors.Is(err, domain.ErrIdempotencyKeyNotFound) {
		t.Fatalf("expected ErrIdempotencyKeyNotFound, got %v", err)
	}
}

func TestIdempotencyRepositoryMarkDone(t *testing.T) {
	store, mock := newMockStore(t)
	repo := postgres.NewIdempotencyRepository(store)

	mock.ExpectExec("UPDATE idempotency_keys").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkDone("key-1", []byte(`{"id":"customer-1"}`), 201); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIdempotencyRepositoryDeleteExpired(t *testing.T) {
	store, mock := newMockStore(t)
	repo := postgres.NewIdempotencyRepository(store)

	mock.ExpectExec("DELETE FROM idempotency_keys").
		WillReturnResult(sqlmock.NewResult(0, 4))

	deleted, err := repo.DeleteExpired(time.Now().UTC(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 4 {
		t.Fatalf("expected 4 deleted, got %d", deleted)
	}
}
