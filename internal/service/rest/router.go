package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter собирает маршрутизацию API. idempotency может быть nil —
// тогда POST-запросы обрабатываются без проверки Idempotency-Key.
func NewRouter(handler *Handler, idempotency *IdempotencyMiddleware) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		if idempotency != nil {
			r.Use(idempotency.Handle)
		}

		r.Post("/customers", handler.CreateCustomer)
		r.Post("/products", handler.CreateProduct)
		r.Post("/orders", handler.CreateOrder)
	})

	r.Get("/customers/{id}", handler.GetCustomer)
	r.Get("/customers/{id}/orders", handler.ListCustomerOrders)
	r.Get("/products/{id}", handler.GetProduct)
	r.Get("/orders/{id}", handler.GetOrder)

	return r
}
