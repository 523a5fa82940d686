package domain

import "time"

// Customer представляет покупателя. Email уникален в рамках всей базы.
type Customer struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateInvariants проверяет базовые инварианты покупателя и возвращает список замечаний.
func (c *Customer) ValidateInvariants() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}
	if c.Email == "" {
		errs = append(errs, ErrCustomerEmailRequired)
	}

	return errs
}
