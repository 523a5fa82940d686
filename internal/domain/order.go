package domain

import "time"

// OrderLine представляет одну позицию заказа. Цена копируется из каталога
// в момент оформления и далее не зависит от изменений каталога.
type OrderLine struct {
	ID        string
	ProductID string
	// PriceMinor — цена за единицу в минимальных денежных единицах (например, копейки).
	PriceMinor int64
	Quantity   int32
	CreatedAt  time.Time
}

// Order агрегирует заказ покупателя и его позиции.
type Order struct {
	ID         string
	CustomerID string
	Lines      []OrderLine
	CreatedAt  time.Time
}

// TotalMinor возвращает сумму заказа: qty * price по всем позициям.
func (o *Order) TotalMinor() int64 {
	var total int64
	for _, line := range o.Lines {
		total += int64(line.Quantity) * line.PriceMinor
	}
	return total
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrOrderCustomerRequired)
	}
	if len(o.Lines) == 0 {
		errs = append(errs, ErrOrderLinesRequired)
	}

	for _, line := range o.Lines {
		if line.ProductID == "" {
			errs = append(errs, ErrLineProductRequired)
		}
		if line.Quantity <= 0 {
			errs = append(errs, ErrLineQuantityInvalid)
		}
		if line.PriceMinor < 0 {
			errs = append(errs, ErrLinePriceInvalid)
		}
	}

	return errs
}
