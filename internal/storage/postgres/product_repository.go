package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) Create(product domain.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, name, price_minor, quantity, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		product.ID, product.Name, product.PriceMinor, product.Quantity,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if constraint, ok := uniqueViolationConstraint(err); ok {
			if constraint == "products_name_key" {
				return domain.ErrProductNameTaken
			}
			return domain.ErrProductExists
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

func (r *productRepository) FindByID(id string) (domain.Product, error) {
	return r.findOne(`
		SELECT id, name, price_minor, quantity, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id)
}

func (r *productRepository) FindByName(name string) (domain.Product, error) {
	return r.findOne(`
		SELECT id, name, price_minor, quantity, created_at, updated_at
		FROM products
		WHERE name = $1
	`, name)
}

func (r *productRepository) FindAllByID(ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		placeholders = append(placeholders, "$"+strconv.Itoa(i+1))
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT id, name, price_minor, quantity, created_at, updated_at
		FROM products
		WHERE id IN (%s)
	`, strings.Join(placeholders, ","))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select products by ids: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0, len(ids))
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID, &product.Name, &product.PriceMinor, &product.Quantity,
			&product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		result = append(result, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	// Дубликаты идентификаторов во входном списке считаются отдельными
	// позициями, поэтому сравнение идёт с длиной исходного списка.
	if len(result) != len(ids) {
		return nil, domain.ErrNotFound
	}

	return result, nil
}

func (r *productRepository) UpdateQuantity(items []domain.ProductQuantity) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	updated := make([]domain.Product, 0, len(items))
	for _, item := range items {
		var product domain.Product
		err = tx.QueryRowContext(ctx, `
			UPDATE products
			SET quantity = quantity - $1,
			    updated_at = $2
			WHERE id = $3
			RETURNING id, name, price_minor, quantity, created_at, updated_at
		`, item.Quantity, time.Now().UTC(), item.ProductID).Scan(
			&product.ID, &product.Name, &product.PriceMinor, &product.Quantity,
			&product.CreatedAt, &product.UpdatedAt,
		)
		if err != nil {
			// Отсутствующий товар молча пропускается.
			if errors.Is(err, sql.ErrNoRows) {
				err = nil
				continue
			}
			return nil, fmt.Errorf("update product quantity: %w", err)
		}
		updated = append(updated, product)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update quantity: %w", err)
	}

	return updated, nil
}

func (r *productRepository) findOne(query string, arg any) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var product domain.Product
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&product.ID, &product.Name, &product.PriceMinor, &product.Quantity,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}

	return product, nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
