package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Create(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, created_at)
		VALUES ($1,$2,$3)
	`,
		order.ID, order.CustomerID, order.CreatedAt,
	)
	if err != nil {
		if _, ok := uniqueViolationConstraint(err); ok {
			return domain.ErrOrderExists
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for _, line := range order.Lines {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_lines (id, order_id, product_id, price_minor, quantity, created_at)
			VALUES ($1,$2,$3,$4,$5,$6)
		`,
			line.ID, order.ID, line.ProductID, line.PriceMinor, line.Quantity, line.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var order domain.Order
	var customerID sql.NullString

	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &customerID, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	// customer_id обнуляется при удалении покупателя (ON DELETE SET NULL).
	if customerID.Valid {
		order.CustomerID = customerID.String
	}

	lines, err := r.loadLines(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Lines = lines

	return order, nil
}

func (r *orderRepository) ListByCustomer(customerID string, limit int) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := `
		SELECT id, customer_id, created_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
	`

	var (
		rows *sql.Rows
		err  error
	)

	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+" LIMIT $2", customerID, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query, customerID)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		var owner sql.NullString
		if err := rows.Scan(&order.ID, &owner, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		if owner.Valid {
			order.CustomerID = owner.String
		}

		lines, err := r.loadLines(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Lines = lines
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) loadLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, price_minor, quantity, created_at
		FROM order_lines
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.OrderLine, 0)
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.ProductID, &line.PriceMinor, &line.Quantity, &line.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order lines: %w", err)
	}

	return lines, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
