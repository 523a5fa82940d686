package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/service/customers"
	"github.com/vladislavdragonenkov/sales/internal/service/orders"
	"github.com/vladislavdragonenkov/sales/internal/service/products"
)

// Handler обрабатывает HTTP-запросы к API продаж.
type Handler struct {
	createCustomer *customers.CreateService
	createProduct  *products.CreateService
	createOrder    *orders.CreateService
	queryOrder     *orders.QueryService

	customersRepo domain.CustomerRepository
	productsRepo  domain.ProductRepository
	logger        *log.Entry
}

// NewHandler собирает handler из бизнес-сервисов и репозиториев чтения.
func NewHandler(
	createCustomer *customers.CreateService,
	createProduct *products.CreateService,
	createOrder *orders.CreateService,
	queryOrder *orders.QueryService,
	customersRepo domain.CustomerRepository,
	productsRepo domain.ProductRepository,
	logger *log.Entry,
) *Handler {
	if logger == nil {
		logger = log.New().WithField("component", "rest-handler")
	}
	return &Handler{
		createCustomer: createCustomer,
		createProduct:  createProduct,
		createOrder:    createOrder,
		queryOrder:     queryOrder,
		customersRepo:  customersRepo,
		productsRepo:   productsRepo,
		logger:         logger,
	}
}

// CreateCustomer регистрирует нового покупателя.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	customer, err := h.createCustomer.Execute(req.Name, req.Email)
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapCustomerToResponse(customer))
}

// GetCustomer возвращает покупателя по идентификатору.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	customer, err := h.customersRepo.FindByID(customerID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapCustomerToResponse(customer))
}

// CreateProduct добавляет товар в каталог.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	product, err := h.createProduct.Execute(req.Name, req.PriceMinor, req.Quantity)
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapProductToResponse(product))
}

// GetProduct возвращает товар по идентификатору.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	product, err := h.productsRepo.FindByID(productID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapProductToResponse(product))
}

// CreateOrder оформляет заказ покупателя.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	requested := make([]domain.ProductQuantity, 0, len(req.Items))
	for _, item := range req.Items {
		requested = append(requested, domain.ProductQuantity{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.createOrder.Execute(req.CustomerID, requested)
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapOrderToResponse(order))
}

// GetOrder возвращает заказ по идентификатору.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	order, err := h.queryOrder.Get(orderID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

// ListCustomerOrders возвращает заказы покупателя от новых к старым.
// Параметр limit ограничивает размер выборки.
func (h *Handler) ListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	list, err := h.queryOrder.ListByCustomer(customerID, limit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	responses := make([]OrderResponse, 0, len(list))
	for _, order := range list {
		responses = append(responses, mapOrderToResponse(order))
	}
	writeJSON(w, http.StatusOK, responses)
}

// respondError переводит доменную ошибку в HTTP-статус и унифицированное тело.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	status, code := classifyError(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).Error("request failed")
	}
	writeError(w, status, code, err.Error())
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "email_taken"
	case errors.Is(err, domain.ErrProductNameTaken):
		return http.StatusConflict, "product_name_taken"
	case domain.IsInsufficientStock(err):
		return http.StatusConflict, "insufficient_stock"
	case errors.Is(err, domain.ErrCustomerNotFound):
		return http.StatusNotFound, "customer_not_found"
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "product_not_found"
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, "order_not_found"
	case errors.Is(err, domain.ErrCustomerNameRequired),
		errors.Is(err, domain.ErrCustomerEmailRequired),
		errors.Is(err, domain.ErrProductNameRequired),
		errors.Is(err, domain.ErrProductPriceInvalid),
		errors.Is(err, domain.ErrProductQuantityInvalid),
		errors.Is(err, domain.ErrOrderCustomerRequired),
		errors.Is(err, domain.ErrOrderLinesRequired):
		return http.StatusBadRequest, "invalid_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
