package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

// customerRepositoryInMemory — простая in-memory реализация CustomerRepository.
type customerRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Customer
}

// NewCustomerRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewCustomerRepository() domain.CustomerRepository {
	return &customerRepositoryInMemory{
		items: make(map[string]domain.Customer),
	}
}

// Create сохраняет нового покупателя, проверяя уникальность ID и email.
func (r *customerRepositoryInMemory) Create(customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[customer.ID]; exists {
		return domain.ErrCustomerExists
	}
	for _, existing := range r.items {
		if existing.Email == customer.Email {
			return domain.ErrEmailTaken
		}
	}
	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	r.items[customer.ID] = customer
	return nil
}

// FindByID возвращает покупателя или ErrCustomerNotFound, если его нет.
func (r *customerRepositoryInMemory) FindByID(id string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.items[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return customer, nil
}

// FindByEmail возвращает покупателя с данным email или ErrCustomerNotFound.
func (r *customerRepositoryInMemory) FindByEmail(email string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, customer := range r.items {
		if customer.Email == email {
			return customer, nil
		}
	}
	return domain.Customer{}, domain.ErrCustomerNotFound
}

var _ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
