package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

// CreateCustomerRequest — тело запроса на регистрацию покупателя.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CustomerResponse — представление покупателя в ответах API.
type CustomerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// CreateProductRequest — тело запроса на добавление товара в каталог.
type CreateProductRequest struct {
	Name       string `json:"name"`
	PriceMinor int64  `json:"price_minor"`
	Quantity   int32  `json:"quantity"`
}

// ProductResponse — представление товара в ответах API.
type ProductResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceMinor int64  `json:"price_minor"`
	Quantity   int32  `json:"quantity"`
	CreatedAt  string `json:"created_at"`
}

// CreateOrderRequest — тело запроса на оформление заказа.
type CreateOrderRequest struct {
	CustomerID string             `json:"customer_id"`
	Items      []OrderItemRequest `json:"items"`
}

// OrderItemRequest — позиция запроса на оформление заказа.
type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

// OrderResponse — представление заказа в ответах API.
type OrderResponse struct {
	ID         string              `json:"id"`
	CustomerID string              `json:"customer_id"`
	TotalMinor int64               `json:"total_minor"`
	Lines      []OrderLineResponse `json:"lines"`
	CreatedAt  string              `json:"created_at"`
}

// OrderLineResponse — позиция заказа в ответах API.
type OrderLineResponse struct {
	ProductID  string `json:"product_id"`
	PriceMinor int64  `json:"price_minor"`
	Quantity   int32  `json:"quantity"`
}

// ErrorResponse — унифицированное тело ошибки API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapCustomerToResponse(customer domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email,
		CreatedAt: customer.CreatedAt.Format(time.RFC3339),
	}
}

func mapProductToResponse(product domain.Product) ProductResponse {
	return ProductResponse{
		ID:         product.ID,
		Name:       product.Name,
		PriceMinor: product.PriceMinor,
		Quantity:   product.Quantity,
		CreatedAt:  product.CreatedAt.Format(time.RFC3339),
	}
}

func mapOrderToResponse(order domain.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderLineResponse{
			ProductID:  line.ProductID,
			PriceMinor: line.PriceMinor,
			Quantity:   line.Quantity,
		})
	}

	return OrderResponse{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		TotalMinor: order.TotalMinor(),
		Lines:      lines,
		CreatedAt:  order.CreatedAt.Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
