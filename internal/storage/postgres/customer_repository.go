package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository создаёт PostgreSQL-реализацию CustomerRepository.
func NewCustomerRepository(store *Store) domain.CustomerRepository {
	return &customerRepository{db: store.DB()}
}

func (r *customerRepository) Create(customer domain.Customer) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
	`,
		customer.ID, customer.Name, customer.Email, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if constraint, ok := uniqueViolationConstraint(err); ok {
			if constraint == "customers_email_key" {
				return domain.ErrEmailTaken
			}
			return domain.ErrCustomerExists
		}
		return fmt.Errorf("insert customer: %w", err)
	}

	return nil
}

func (r *customerRepository) FindByID(id string) (domain.Customer, error) {
	return r.findOne(`
		SELECT id, name, email, created_at, updated_at
		FROM customers
		WHERE id = $1
	`, id)
}

func (r *customerRepository) FindByEmail(email string) (domain.Customer, error) {
	return r.findOne(`
		SELECT id, name, email, created_at, updated_at
		FROM customers
		WHERE email = $1
	`, email)
}

func (r *customerRepository) findOne(query string, arg any) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var customer domain.Customer
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&customer.ID, &customer.Name, &customer.Email, &customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("select customer: %w", err)
	}

	return customer, nil
}

// uniqueViolationConstraint распознаёт нарушение уникальности (SQLSTATE 23505)
// и возвращает имя нарушенного constraint.
func uniqueViolationConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}

var _ domain.CustomerRepository = (*customerRepository)(nil)
