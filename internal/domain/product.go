package domain

import "time"

// Product представляет товар каталога с текущим остатком на складе.
type Product struct {
	ID string
	// Name уникально: сервис создания товара отклоняет повторное имя.
	Name string
	// PriceMinor — цена за единицу в минимальных денежных единицах (например, копейки).
	PriceMinor int64
	// Quantity — текущий остаток. Списание остатков не ограничивает значение снизу,
	// поэтому после конкурентных заказов остаток может стать отрицательным.
	Quantity  int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductQuantity связывает идентификатор товара с количеством. Используется
// и как позиция запроса на создание заказа, и как величина списания остатка.
type ProductQuantity struct {
	ProductID string
	Quantity  int32
}

// ValidateInvariants проверяет инварианты товара на момент создания.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.PriceMinor < 0 {
		errs = append(errs, ErrProductPriceInvalid)
	}
	if p.Quantity < 0 {
		errs = append(errs, ErrProductQuantityInvalid)
	}

	return errs
}
