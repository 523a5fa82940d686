package domain

import (
	"errors"
	"fmt"
)

var (
	// Ошибка отсутствующего имени покупателя.
	ErrCustomerNameRequired = errors.New("customer name is required")
	// Ошибка отсутствующего email покупателя.
	ErrCustomerEmailRequired = errors.New("customer email is required")
	// Ошибка отсутствующего имени товара.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка отрицательной цены товара.
	ErrProductPriceInvalid = errors.New("product price must be non-negative")
	// Ошибка отрицательного остатка при создании товара.
	ErrProductQuantityInvalid = errors.New("product quantity must be non-negative")
	// Ошибка отсутствующего идентификатора покупателя в заказе.
	ErrOrderCustomerRequired = errors.New("customer_id is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrOrderLinesRequired = errors.New("order must contain at least one line")
	// Ошибка отсутствующего товара в позиции заказа.
	ErrLineProductRequired = errors.New("order line product_id is required")
	// Ошибка при некорректном количестве в позиции (<= 0).
	ErrLineQuantityInvalid = errors.New("order line quantity must be greater than zero")
	// Ошибка отрицательной цены в позиции заказа.
	ErrLinePriceInvalid = errors.New("order line price must be non-negative")

	// ErrEmailTaken возвращается, если email уже закреплён за другим покупателем.
	ErrEmailTaken = errors.New("email is already in use by another customer")
	// ErrProductNameTaken возвращается, если имя товара уже занято.
	ErrProductNameTaken = errors.New("product name is already in use")

	// ErrCustomerNotFound возвращается, если покупатель не найден в репозитории.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrProductNotFound возвращается, если среди запрошенных товаров есть незарегистрированный.
	ErrProductNotFound = errors.New("some product ids are not registered")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrNotFound — общая ошибка пакетной выборки товаров: найдено меньше записей,
	// чем идентификаторов в запросе.
	ErrNotFound = errors.New("some products are not found")

	// ErrCustomerExists сигнализирует о попытке вставки покупателя с занятым ID.
	ErrCustomerExists = errors.New("customer already exists")
	// ErrProductExists сигнализирует о попытке вставки товара с занятым ID.
	ErrProductExists = errors.New("product already exists")
	// ErrOrderExists сигнализирует о попытке вставки заказа с занятым ID.
	ErrOrderExists = errors.New("order already exists")

	// ErrIdempotencyKeyRequired — пустой idempotency-key.
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	// ErrIdempotencyRequestHashRequired — пустой хеш запроса.
	ErrIdempotencyRequestHashRequired = errors.New("idempotency request hash is required")
	// ErrIdempotencyKeyAlreadyExists — ключ уже зарегистрирован.
	ErrIdempotencyKeyAlreadyExists = errors.New("idempotency key already exists")
	// ErrIdempotencyHashMismatch — ключ переиспользован с другим телом запроса.
	ErrIdempotencyHashMismatch = errors.New("idempotency key is used with different request payload")
	// ErrIdempotencyKeyNotFound — запись по ключу отсутствует.
	ErrIdempotencyKeyNotFound = errors.New("idempotency key not found")

	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// InsufficientStockError возвращается, когда запрошенное количество превышает
// текущий остаток товара. Заказ в этом случае не создаётся целиком.
type InsufficientStockError struct {
	Product   string
	Requested int32
	Available int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("invalid quantity for product %q (%d ordered, %d in stock)",
		e.Product, e.Requested, e.Available)
}

// IsInsufficientStock проверяет, является ли ошибка нехваткой остатка.
func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}
