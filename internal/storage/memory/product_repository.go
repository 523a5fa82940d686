package memory

import (
	"sync"
	"time"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

// productRepositoryInMemory — простая in-memory реализация ProductRepository.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items: make(map[string]domain.Product),
	}
}

// Create сохраняет новый товар, проверяя уникальность ID и имени.
func (r *productRepositoryInMemory) Create(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[product.ID]; exists {
		return domain.ErrProductExists
	}
	for _, existing := range r.items {
		if existing.Name == product.Name {
			return domain.ErrProductNameTaken
		}
	}
	r.items[product.ID] = product
	return nil
}

// FindByID возвращает товар или ErrProductNotFound, если его нет.
func (r *productRepositoryInMemory) FindByID(id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// FindByName возвращает товар с данным именем или ErrProductNotFound.
func (r *productRepositoryInMemory) FindByName(name string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, product := range r.items {
		if product.Name == name {
			return product, nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}

// FindAllByID возвращает товары по списку идентификаторов.
// Дубликаты во входном списке схлопываются при выборке, но учитываются в счётчике,
// поэтому запрос с повторяющимся ID завершится ErrNotFound.
func (r *productRepositoryInMemory) FindAllByID(ids []string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool, len(ids))
	result := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if product, ok := r.items[id]; ok {
			result = append(result, product)
		}
	}

	if len(result) != len(ids) {
		return nil, domain.ErrNotFound
	}

	return result, nil
}

// UpdateQuantity вычитает количество из остатков найденных товаров.
// Отсутствующие идентификаторы молча пропускаются; остаток может уйти в минус.
func (r *productRepositoryInMemory) UpdateQuantity(items []domain.ProductQuantity) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated := make([]domain.Product, 0, len(items))
	for _, item := range items {
		product, ok := r.items[item.ProductID]
		if !ok {
			continue
		}
		product.Quantity -= item.Quantity
		product.UpdatedAt = time.Now().UTC()
		r.items[item.ProductID] = product
		updated = append(updated, product)
	}

	return updated, nil
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
