package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/ecommerce-core/internal/core/domain"
	"github.com/rl1809/ecommerce-core/internal/core/service"
	"github.com/rl1809/ecommerce-core/internal/port"
)

// ErrDuplicateRequest reports a replayed order submission caught by the
// idempotency guard.
var ErrDuplicateRequest = errors.New("duplicate request")

// HTTPHandler translates the JSON API into service calls and the error
// taxonomy into status codes. The cache, when present, fronts order creation
// with an idempotency check and a fast-fail stock reservation; it is never
// the source of truth.
type HTTPHandler struct {
	categories *service.CategoryService
	customers  *service.CustomerService
	products   *service.ProductService
	orders     *service.OrderService
	cache      port.CacheRepository
}

func NewHTTPHandler(categories *service.CategoryService, customers *service.CustomerService,
	products *service.ProductService, orders *service.OrderService, cache port.CacheRepository) *HTTPHandler {
	return &HTTPHandler{
		categories: categories,
		customers:  customers,
		products:   products,
		orders:     orders,
		cache:      cache,
	}
}

func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)

	mux.HandleFunc("POST /api/categories", h.CreateCategory)
	mux.HandleFunc("GET /api/categories", h.ListCategories)
	mux.HandleFunc("GET /api/categories/{id}", h.GetCategory)
	mux.HandleFunc("PUT /api/categories/{id}", h.UpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", h.DeleteCategory)

	mux.HandleFunc("POST /api/customers", h.CreateCustomer)
	mux.HandleFunc("GET /api/customers", h.ListCustomers)
	mux.HandleFunc("GET /api/customers/{id}", h.GetCustomer)
	mux.HandleFunc("PUT /api/customers/{id}", h.UpdateCustomer)
	mux.HandleFunc("PUT /api/customers/{id}/email", h.UpdateCustomerEmail)
	mux.HandleFunc("DELETE /api/customers/{id}", h.DeleteCustomer)

	mux.HandleFunc("POST /api/products", h.CreateProduct)
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.HandleFunc("PUT /api/products/{id}", h.UpdateProduct)
	mux.HandleFunc("POST /api/products/{id}/stock/increase", h.IncreaseStock)
	mux.HandleFunc("POST /api/products/{id}/stock/decrease", h.DecreaseStock)
	mux.HandleFunc("DELETE /api/products/{id}", h.DeleteProduct)

	mux.HandleFunc("POST /api/orders", h.CreateOrder)
	mux.HandleFunc("GET /api/orders", h.ListOrders)
	mux.HandleFunc("GET /api/orders/{id}", h.GetOrder)
	mux.HandleFunc("PUT /api/orders/{id}/status", h.UpdateOrderStatus)
	mux.HandleFunc("POST /api/orders/{id}/cancel", h.CancelOrder)
	mux.HandleFunc("DELETE /api/orders/{id}", h.DeleteOrder)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrDuplicateValue),
		errors.Is(err, ErrDuplicateRequest),
		errors.Is(err, domain.ErrInsufficientStock):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidStatusTransition),
		errors.Is(err, domain.ErrOrderFinalized):
		status, message = http.StatusUnprocessableEntity, err.Error()
	}
	writeJSON(w, status, errorResponse{Error: message})
}

func writeNotFound(w http.ResponseWriter, what string) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: what + " not found"})
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func writeBadID(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id must be a positive integer"})
}

type categoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCategoryResponse(c *domain.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID().Int64(),
		Name:        c.Name(),
		Description: c.Description(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *HTTPHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	category, err := h.categories.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(category))
}

func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		category, err := h.categories.GetByName(r.Context(), name)
		if err != nil {
			writeError(w, err)
			return
		}
		if category == nil {
			writeNotFound(w, "category")
			return
		}
		writeJSON(w, http.StatusOK, toCategoryResponse(category))
		return
	}
	categories, err := h.categories.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadID(w)
		return
	}
	category, err := h.categories.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if category == nil {
		writeNotFound(w, "category")
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (h *HTTPHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadID(w)
		return
	}
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	category, err := h.categories.Update(r.Context(), id, req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (h *HTTPHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadID(w)
		return
	}
	if err := h.categories.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type customerResponse struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	ZipCode     string    `json:"zip_code,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCustomerResponse(c *domain.Customer) customerResponse {
	return customerResponse{
		ID:          c.ID().Int64(),
		FirstName:   c.FirstName(),
		LastName:    c.LastName(),
		Email:       c.Email(),
		PhoneNumber: c.PhoneNumber(),
		Address:     c.Address(),
		City:        c.City(),
		State:       c.State(),
		ZipCode:     c.ZipCode(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}

type customerRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zip_code"`
}

func (req customerRequest) toInput() service.CustomerInput {
	return service.CustomerInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
	}
}

func (h *HTTPHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	customer, err := h.customers.Create(r.Context(), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerResponse(customer))
}

func (h *HTTPHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	if email := r.URL.Query().Get("email"); email != "" {
		customer, err := h.customers.GetByEmail(r.Context(), email)
		if err != nil {
			writeError(w, err)
			return
		}
		if customer == nil {
			writeNotFound(w, "customer")
			return
		}
		writeJSON(w, http.StatusOK, toCustomerResponse(customer))
		return
	}
	customers, err := h.customers.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomerResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadID(w)
		return
	}
	customer, err := h.customers.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if customer == nil {
		writeNotFound(w, "customer")
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(customer))
}

func (h *HTTPHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadID(w)
		return
	}
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	customer, err := h.customers.UpdateInfo(r.Context(), id, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(customer))
}

func (h *HTTPHandler) UpdateCustomerEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadID(w)
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	customer, err := h.customers.UpdateEmail(r.Context(), id, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(customer))
}

func (h *HTTPHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadID(w)
		return
	}
	if err := h.customers.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type productResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price"`
	Stock       int       `json:"stock"`
	CategoryID  int64     `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID().Int64(),
		Name:        p.Name(),
		Description: p.Description(),
		Price:       p.Price().String(),
		Stock:       p.Stock(),
		CategoryID:  p.CategoryID().Int64(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	CategoryID  int64  `json:"category_id"`
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	price, err := domain.MoneyFromString(req.Price)
	if err != nil {
		writeError(w, err)
		return
	}
	product, err := h.products.Create(r.Context(), req.Name, req.Description, price, req.Stock, req.CategoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	h.syncStockMirror(r, product)
	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("category"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeBadID(w)
			return
		}
		products, err := h.products.ListByCategory(r.Context(), categoryID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeProductList(w, products)
		return
	}
	products, err := h.products.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeProductList(w, products)
}

func writeProductList(w http.ResponseWriter, products []*domain.Product) {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadID(w)
		return
	}
	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if product == nil {
		writeNotFound(w, "product")
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadID(w)
		return
	}
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	price := domain.ZeroMoney() // zero means "leave unchanged"
	if req.Price != "" {
		var err error
		price, err = domain.MoneyFromString(req.Price)
		if err != nil {
			writeError(w, err)
			return
		}
	}
	product, err := h.products.Update(r.Context(), id, req.Name, req.Description, price)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

type stockRequest struct {
	Quantity int `json:"quantity"`
}

func (h *HTTPHandler) IncreaseStock(w http.ResponseWriter, r *http.Request) {
	h.changeStock(w, r, h.products.IncreaseStock)
}

func (h *HTTPHandler) DecreaseStock(w http.ResponseWriter, r *http.Request) {
	h.changeStock(w, r, h.products.DecreaseStock)
}

func (h *HTTPHandler) changeStock(w http.ResponseWriter, r *http.Request,
	apply func(ctx context.Context, id int64, quantity int) error) {

	id, ok := pathID(r)
	if !ok {
		writeBadID(w)
		return
	}
	var req stockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := apply(r.Context(), id, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	h.syncStockMirror(r, product)
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadID(w)
		return
	}
	if err := h.products.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// syncStockMirror pushes the authoritative counter into the cache; a mirror
// failure is not a request failure.
func (h *HTTPHandler) syncStockMirror(r *http.Request, product *domain.Product) {
	if h.cache == nil || product == nil {
		return
	}
	_ = h.cache.SetStock(r.Context(), product.ID(), product.Stock())
}

type orderItemResponse struct {
	ID              int64  `json:"id,omitempty"`
	ProductID       int64  `json:"product_id"`
	Quantity        int    `json:"quantity"`
	PriceAtPurchase string `json:"price_at_purchase"`
	Subtotal        string `json:"subtotal"`
}

type orderResponse struct {
	ID         int64               `json:"id"`
	CustomerID int64               `json:"customer_id"`
	Status     string              `json:"status"`
	TotalPrice string              `json:"total_price"`
	Items      []orderItemResponse `json:"items"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	items := o.Items()
	out := make([]orderItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, orderItemResponse{
			ID:              item.ID(),
			ProductID:       item.ProductID().Int64(),
			Quantity:        item.Quantity(),
			PriceAtPurchase: item.PriceAtPurchase().String(),
			Subtotal:        item.Subtotal().String(),
		})
	}
	return orderResponse{
		ID:         o.ID().Int64(),
		CustomerID: o.CustomerID().Int64(),
		Status:     o.Status().String(),
		TotalPrice: o.TotalPrice().String(),
		Items:      out,
		CreatedAt:  o.CreatedAt(),
		UpdatedAt:  o.UpdatedAt(),
	}
}

type orderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type createOrderRequest struct {
	RequestID  string             `json:"request_id"`
	CustomerID int64              `json:"customer_id"`
	Items      []orderItemRequest `json:"items"`
}

func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	lines := make([]service.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.OrderItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	if h.cache != nil {
		requestID := req.RequestID
		if requestID == "" {
			requestID = uuid.NewString()
		}
		// A cache failure fails the request: proceeding without the guard
		// would let a replayed submission place a second order.
		ok, err := h.cache.SetIdempotency(r.Context(), "idempotency:order:"+requestID)
		if err != nil {
			writeError(w, err)
			return
		}
		if !ok {
			writeError(w, ErrDuplicateRequest)
			return
		}

		reserved, ok := h.reserveLines(r, lines)
		if !ok {
			writeError(w, domain.ErrInsufficientStock)
			return
		}
		order, err := h.orders.CreateOrder(r.Context(), req.CustomerID, lines)
		if err != nil {
			h.releaseLines(r, reserved)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toOrderResponse(order))
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), req.CustomerID, lines)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

// reserveLines decrements the stock mirror for each line; on any shortfall
// it releases what it already took and reports failure.
func (h *HTTPHandler) reserveLines(r *http.Request, lines []service.OrderItemInput) ([]service.OrderItemInput, bool) {
	var reserved []service.OrderItemInput
	for _, line := range lines {
		productID, err := domain.NewProductID(line.ProductID)
		if err != nil {
			h.releaseLines(r, reserved)
			return nil, false
		}
		ok, err := h.cache.ReserveStock(r.Context(), productID, line.Quantity)
		if err != nil || !ok {
			h.releaseLines(r, reserved)
			return nil, false
		}
		reserved = append(reserved, line)
	}
	return reserved, true
}

func (h *HTTPHandler) releaseLines(r *http.Request, reserved []service.OrderItemInput) {
	for _, line := range reserved {
		productID, err := domain.NewProductID(line.ProductID)
		if err != nil {
			continue
		}
		_ = h.cache.ReleaseStock(r.Context(), productID, line.Quantity)
	}
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var (
		orders []*domain.Order
		err    error
	)
	switch {
	case r.URL.Query().Get("customer") != "":
		var customerID int64
		customerID, err = strconv.ParseInt(r.URL.Query().Get("customer"), 10, 64)
		if err != nil {
			writeBadID(w)
			return
		}
		orders, err = h.orders.ListByCustomer(r.Context(), customerID)
	case r.URL.Query().Get("status") != "":
		orders, err = h.orders.ListByStatus(r.Context(), r.URL.Query().Get("status"))
	default:
		orders, err = h.orders.List(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadID(w)
		return
	}
	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if order == nil {
		writeNotFound(w, "order")
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *HTTPHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadID(w)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.orders.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, err)
		return
	}
	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *HTTPHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadID(w)
		return
	}
	if err := h.orders.Cancel(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.cache != nil && order != nil {
		for _, item := range order.Items() {
			_ = h.cache.ReleaseStock(r.Context(), item.ProductID(), item.Quantity())
		}
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *HTTPHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadID(w)
		return
	}
	if err := h.orders.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
