package rest_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/sales/internal/service/customers"
	"github.com/vladislavdragonenkov/sales/internal/service/orders"
	"github.com/vladislavdragonenkov/sales/internal/service/products"
	"github.com/vladislavdragonenkov/sales/internal/service/rest"
	"github.com/vladislavdragonenkov/sales/internal/storage/memory"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	customersRepo := memory.NewCustomerRepository()
	productsRepo := memory.NewProductRepository()
	ordersRepo := memory.NewOrderRepository()
	outboxRepo := memory.NewOutboxRepository()
	idempotencyRepo := memory.NewIdempotencyRepository()

	handler := rest.NewHandler(
		customers.NewCreateService(customersRepo, outboxRepo, nil),
		products.NewCreateService(productsRepo, outboxRepo, nil),
		orders.NewCreateService(customersRepo, productsRepo, ordersRepo, outboxRepo, nil),
		orders.NewQueryService(ordersRepo, nil),
		customersRepo,
		productsRepo,
		nil,
	)

	return rest.NewRouter(handler, rest.NewIdempotencyMiddleware(idempotencyRepo, nil))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createCustomer(t *testing.T, router http.Handler, name, email string) rest.CustomerResponse {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/customers", rest.CreateCustomerRequest{Name: name, Email: email}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp rest.CustomerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func createProduct(t *testing.T, router http.Handler, name string, priceMinor int64, quantity int32) rest.ProductResponse {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/products", rest.CreateProductRequest{
		Name:       name,
		PriceMinor: priceMinor,
		Quantity:   quantity,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp rest.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateCustomerEndpoint(t *testing.T) {
	router := newTestRouter(t)

	customer := createCustomer(t, router, "Ada Lovelace", "ada@example.com")
	require.NotEmpty(t, customer.ID)
	require.Equal(t, "ada@example.com", customer.Email)

	rec := doJSON(t, router, http.MethodPost, "/customers", rest.CreateCustomerRequest{
		Name:  "Another Ada",
		Email: "ada@example.com",
	}, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	var errResp rest.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	require.Equal(t, "email_taken", errResp.Error)
}

func TestCreateCustomerValidationEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/customers", rest.CreateCustomerRequest{Email: "ada@example.com"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProductEndpoint(t *testing.T) {
	router := newTestRouter(t)

	product := createProduct(t, router, "Keyboard", 4500, 10)
	require.NotEmpty(t, product.ID)

	rec := doJSON(t, router, http.MethodGet, "/products/"+product.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/products", rest.CreateProductRequest{
		Name:       "Keyboard",
		PriceMinor: 9900,
		Quantity:   1,
	}, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateOrderEndpoint(t *testing.T) {
	router := newTestRouter(t)
	customer := createCustomer(t, router, "Ada Lovelace", "ada@example.com")
	keyboard := createProduct(t, router, "Keyboard", 4500, 10)
	mouse := createProduct(t, router, "Mouse", 1500, 4)

	rec := doJSON(t, router, http.MethodPost, "/orders", rest.CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []rest.OrderItemRequest{
			{ProductID: keyboard.ID, Quantity: 3},
			{ProductID: mouse.ID, Quantity: 2},
		},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order rest.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	require.Equal(t, customer.ID, order.CustomerID)
	require.Len(t, order.Lines, 2)
	require.Equal(t, int64(3*4500+2*1500), order.TotalMinor)

	// Остатки уменьшились после заказа.
	rec = doJSON(t, router, http.MethodGet, "/products/"+keyboard.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var product rest.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	require.Equal(t, int32(7), product.Quantity)

	// Заказ доступен и по прямому GET, и в истории покупателя.
	rec = doJSON(t, router, http.MethodGet, "/orders/"+order.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/customers/"+customer.ID+"/orders", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []rest.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, order.ID, list[0].ID)
}

func TestCreateOrderInsufficientStockEndpoint(t *testing.T) {
	router := newTestRouter(t)
	customer := createCustomer(t, router, "Ada Lovelace", "ada@example.com")
	keyboard := createProduct(t, router, "Keyboard", 4500, 7)

	rec := doJSON(t, router, http.MethodPost, "/orders", rest.CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []rest.OrderItemRequest{{ProductID: keyboard.ID, Quantity: 8}},
	}, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	var errResp rest.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	require.Equal(t, "insufficient_stock", errResp.Error)

	// Остаток не изменился.
	rec = doJSON(t, router, http.MethodGet, "/products/"+keyboard.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var product rest.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	require.Equal(t, int32(7), product.Quantity)
}

func TestCreateOrderUnknownRefsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	customer := createCustomer(t, router, "Ada Lovelace", "ada@example.com")
	keyboard := createProduct(t, router, "Keyboard", 4500, 10)

	rec := doJSON(t, router, http.MethodPost, "/orders", rest.CreateOrderRequest{
		CustomerID: "missing-customer",
		Items:      []rest.OrderItemRequest{{ProductID: keyboard.ID, Quantity: 1}},
	}, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/orders", rest.CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []rest.OrderItemRequest{{ProductID: "missing-product", Quantity: 1}},
	}, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var errResp rest.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	require.Equal(t, "product_not_found", errResp.Error)
}

func TestGetOrderNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/orders/missing", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
