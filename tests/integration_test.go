package tests

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rl1809/ecommerce-core/internal/adapter/handler"
	"github.com/rl1809/ecommerce-core/internal/adapter/storage"
	"github.com/rl1809/ecommerce-core/internal/core/domain"
	"github.com/rl1809/ecommerce-core/internal/core/service"
)

type testEnv struct {
	redis  *redis.Client
	mysql  *sql.DB
	store  *storage.MySQLStore
	cache  *storage.RedisCache
	server *httptest.Server
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		mysqlDSN = "root:root@tcp(localhost:3306)/ecommerce?parseTime=true"
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	store := storage.NewMySQLStore(db)
	cache := storage.NewRedisCache(rdb)

	categories := service.NewCategoryService(store.Categories())
	customers := service.NewCustomerService(store.Customers())
	products := service.NewProductService(store.Products(), store.Categories(), store)
	orders := service.NewOrderService(store.Orders(), store.Products(), store.Customers(), store)

	mux := http.NewServeMux()
	handler.NewHTTPHandler(categories, customers, products, orders, cache).Register(mux)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		rdb.Close()
		db.Close()
	})
	return &testEnv{redis: rdb, mysql: db, store: store, cache: cache, server: server}
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	resp, err := http.Post(url, "application/json", &buf)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

// seedCatalog creates a uniquely named category, customer, and product both
// in MySQL and in the Redis stock mirror.
func (env *testEnv) seedCatalog(t *testing.T, stock int) (customerID, productID int64) {
	t.Helper()
	suffix := uuid.NewString()[:8]

	resp, category := postJSON(t, env.server.URL+"/api/categories", map[string]any{
		"name": "it-cat-" + suffix,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create category: status %d, body %v", resp.StatusCode, category)
	}
	categoryID := int64(category["id"].(float64))
	t.Cleanup(func() {
		env.mysql.Exec(`DELETE FROM categories WHERE id = ?`, categoryID)
	})

	resp, customer := postJSON(t, env.server.URL+"/api/customers", map[string]any{
		"first_name":   "Integration",
		"last_name":    "Test",
		"email":        fmt.Sprintf("it-%s@example.com", suffix),
		"phone_number": "555-" + suffix,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create customer: status %d, body %v", resp.StatusCode, customer)
	}
	customerID = int64(customer["id"].(float64))
	t.Cleanup(func() {
		env.mysql.Exec(`DELETE FROM customers WHERE id = ?`, customerID)
	})

	resp, product := postJSON(t, env.server.URL+"/api/products", map[string]any{
		"name":        "it-prod-" + suffix,
		"price":       "9.99",
		"stock":       stock,
		"category_id": categoryID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create product: status %d, body %v", resp.StatusCode, product)
	}
	productID = int64(product["id"].(float64))
	t.Cleanup(func() {
		env.mysql.Exec(`DELETE FROM order_items WHERE product_id = ?`, productID)
		env.mysql.Exec(`DELETE FROM products WHERE id = ?`, productID)
		env.redis.Del(context.Background(), fmt.Sprintf("stock:%d", productID))
	})

	return customerID, productID
}

func (env *testEnv) mysqlStock(t *testing.T, productID int64) int {
	t.Helper()
	var stock int
	if err := env.mysql.QueryRow(`SELECT stock FROM products WHERE id = ?`, productID).Scan(&stock); err != nil {
		t.Fatalf("read stock: %v", err)
	}
	return stock
}

func TestIntegration_ConcurrentOrdersNoOversell(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	initialStock := 10
	totalRequests := 20
	customerID, productID := env.seedCatalog(t, initialStock)

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			payload, _ := json.Marshal(map[string]any{
				"request_id":  uuid.NewString(),
				"customer_id": customerID,
				"items":       []map[string]any{{"product_id": productID, "quantity": 1}},
			})
			resp, err := http.Post(env.server.URL+"/api/orders", "application/json", bytes.NewReader(payload))
			if err != nil {
				t.Errorf("POST order: %v", err)
				return
			}
			resp.Body.Close()
			if resp.StatusCode == http.StatusCreated {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	t.Cleanup(func() {
		env.mysql.Exec(`DELETE FROM order_items WHERE order_id IN (SELECT id FROM orders WHERE customer_id = ?)`, customerID)
		env.mysql.Exec(`DELETE FROM orders WHERE customer_id = ?`, customerID)
	})

	if successCount.Load() != int32(initialStock) {
		t.Errorf("expected %d successful orders, got %d", initialStock, successCount.Load())
	}
	if stock := env.mysqlStock(t, productID); stock != 0 {
		t.Errorf("expected MySQL stock 0, got %d", stock)
	}

	redisStock, _ := env.redis.Get(ctx, fmt.Sprintf("stock:%d", productID)).Int()
	if redisStock != 0 {
		t.Errorf("expected Redis mirror 0, got %d", redisStock)
	}

	var orderCount int
	env.mysql.QueryRow(`SELECT COUNT(*) FROM orders WHERE customer_id = ?`, customerID).Scan(&orderCount)
	if orderCount != initialStock {
		t.Errorf("expected %d orders in MySQL, got %d", initialStock, orderCount)
	}
}

// The storage layer alone must prevent oversell: no Redis fast path here,
// the coordination service drives MySQLStore directly with no cache wired.
func TestIntegration_MySQLOnlyConcurrentOrdersNoOversell(t *testing.T) {
	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		mysqlDSN = "root:root@tcp(localhost:3306)/ecommerce?parseTime=true"
	}
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	store := storage.NewMySQLStore(db)
	categories := service.NewCategoryService(store.Categories())
	customers := service.NewCustomerService(store.Customers())
	products := service.NewProductService(store.Products(), store.Categories(), store)
	orders := service.NewOrderService(store.Orders(), store.Products(), store.Customers(), store)

	suffix := uuid.NewString()[:8]
	category, err := categories.Create(ctx, "it-cat-"+suffix, "")
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	t.Cleanup(func() { db.Exec(`DELETE FROM categories WHERE id = ?`, category.ID().Int64()) })

	customer, err := customers.Create(ctx, service.CustomerInput{
		FirstName:   "Integration",
		LastName:    "Test",
		Email:       fmt.Sprintf("it-%s@example.com", suffix),
		PhoneNumber: "555-" + suffix,
	})
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	t.Cleanup(func() {
		db.Exec(`DELETE FROM order_items WHERE order_id IN (SELECT id FROM orders WHERE customer_id = ?)`, customer.ID().Int64())
		db.Exec(`DELETE FROM orders WHERE customer_id = ?`, customer.ID().Int64())
		db.Exec(`DELETE FROM customers WHERE id = ?`, customer.ID().Int64())
	})

	initialStock := 10
	totalRequests := 20
	price, _ := domain.MoneyFromString("9.99")
	product, err := products.Create(ctx, "it-prod-"+suffix, "", price, initialStock, category.ID().Int64())
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	t.Cleanup(func() { db.Exec(`DELETE FROM products WHERE id = ?`, product.ID().Int64()) })

	var successCount, soldOutCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := orders.CreateOrder(ctx, customer.ID().Int64(), []service.OrderItemInput{
				{ProductID: product.ID().Int64(), Quantity: 1},
			})
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				soldOutCount.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successCount.Load() != int32(initialStock) {
		t.Errorf("expected %d successful orders, got %d", initialStock, successCount.Load())
	}
	if soldOutCount.Load() != int32(totalRequests-initialStock) {
		t.Errorf("expected %d sold-out rejections, got %d", totalRequests-initialStock, soldOutCount.Load())
	}

	var stock int
	if err := db.QueryRow(`SELECT stock FROM products WHERE id = ?`, product.ID().Int64()).Scan(&stock); err != nil {
		t.Fatalf("read stock: %v", err)
	}
	if stock != 0 {
		t.Errorf("expected MySQL stock 0, got %d", stock)
	}

	var orderCount int
	db.QueryRow(`SELECT COUNT(*) FROM orders WHERE customer_id = ?`, customer.ID().Int64()).Scan(&orderCount)
	if orderCount != initialStock {
		t.Errorf("expected %d orders in MySQL, got %d", initialStock, orderCount)
	}
}

func TestIntegration_IdempotencyPreventsDoubleOrder(t *testing.T) {
	env := setupTestEnv(t)

	customerID, productID := env.seedCatalog(t, 10)
	requestID := "same-request-id-" + uuid.NewString()

	t.Cleanup(func() {
		env.redis.Del(context.Background(), "idempotency:order:"+requestID)
		env.mysql.Exec(`DELETE FROM order_items WHERE order_id IN (SELECT id FROM orders WHERE customer_id = ?)`, customerID)
		env.mysql.Exec(`DELETE FROM orders WHERE customer_id = ?`, customerID)
	})

	body := map[string]any{
		"request_id":  requestID,
		"customer_id": customerID,
		"items":       []map[string]any{{"product_id": productID, "quantity": 1}},
	}

	resp, first := postJSON(t, env.server.URL+"/api/orders", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first order: status %d, body %v", resp.StatusCode, first)
	}

	resp, _ = postJSON(t, env.server.URL+"/api/orders", body)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("replayed order: expected 409, got %d", resp.StatusCode)
	}

	if stock := env.mysqlStock(t, productID); stock != 9 {
		t.Errorf("expected stock 9 after one order, got %d", stock)
	}
}

func TestIntegration_CancelRestoresStockAndMirror(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	customerID, productID := env.seedCatalog(t, 10)

	resp, order := postJSON(t, env.server.URL+"/api/orders", map[string]any{
		"request_id":  uuid.NewString(),
		"customer_id": customerID,
		"items":       []map[string]any{{"product_id": productID, "quantity": 4}},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create order: status %d, body %v", resp.StatusCode, order)
	}
	orderID := int64(order["id"].(float64))
	t.Cleanup(func() {
		env.mysql.Exec(`DELETE FROM order_items WHERE order_id = ?`, orderID)
		env.mysql.Exec(`DELETE FROM orders WHERE id = ?`, orderID)
	})

	if stock := env.mysqlStock(t, productID); stock != 6 {
		t.Fatalf("expected stock 6, got %d", stock)
	}

	resp, cancelled := postJSON(t, fmt.Sprintf("%s/api/orders/%d/cancel", env.server.URL, orderID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel: status %d, body %v", resp.StatusCode, cancelled)
	}
	if cancelled["status"] != domain.OrderStatusCancelled.String() {
		t.Errorf("expected cancelled, got %v", cancelled["status"])
	}

	if stock := env.mysqlStock(t, productID); stock != 10 {
		t.Errorf("expected MySQL stock restored to 10, got %d", stock)
	}
	redisStock, _ := env.redis.Get(ctx, fmt.Sprintf("stock:%d", productID)).Int()
	if redisStock != 10 {
		t.Errorf("expected Redis mirror restored to 10, got %d", redisStock)
	}
}

func TestIntegration_ReservationRollbackOnServiceFailure(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, productID := env.seedCatalog(t, 10)

	// Unknown customer: the mirror reservation must be released when the
	// transactional create fails.
	resp, _ := postJSON(t, env.server.URL+"/api/orders", map[string]any{
		"request_id":  uuid.NewString(),
		"customer_id": int64(1) << 50,
		"items":       []map[string]any{{"product_id": productID, "quantity": 3}},
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown customer, got %d", resp.StatusCode)
	}

	if stock := env.mysqlStock(t, productID); stock != 10 {
		t.Errorf("expected MySQL stock unchanged at 10, got %d", stock)
	}
	redisStock, _ := env.redis.Get(ctx, fmt.Sprintf("stock:%d", productID)).Int()
	if redisStock != 10 {
		t.Errorf("expected Redis mirror unchanged at 10, got %d", redisStock)
	}
}
