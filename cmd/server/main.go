package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/rl1809/ecommerce-core/internal/adapter/handler"
	"github.com/rl1809/ecommerce-core/internal/adapter/storage"
	"github.com/rl1809/ecommerce-core/internal/core/service"
)

const (
	defaultHTTPAddr  = ":8080"
	defaultMySQLDSN  = "root:root@tcp(localhost:3306)/ecommerce?parseTime=true"
	defaultRedisAddr = "localhost:6379"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := sql.Open("mysql", envOr("MYSQL_DSN", defaultMySQLDSN))
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}
	log.Println("connected to mysql")

	rdb := redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_ADDR", defaultRedisAddr),
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	log.Println("connected to redis")

	store := storage.NewMySQLStore(db)
	cache := storage.NewRedisCache(rdb)

	categoryService := service.NewCategoryService(store.Categories())
	customerService := service.NewCustomerService(store.Customers())
	productService := service.NewProductService(store.Products(), store.Categories(), store)
	orderService := service.NewOrderService(store.Orders(), store.Products(), store.Customers(), store)

	// Mirror current stock counters into Redis so the fast-fail
	// reservation path starts from the authoritative values.
	products, err := store.Products().FindAll(ctx)
	if err != nil {
		log.Fatalf("failed to load products: %v", err)
	}
	for _, p := range products {
		if err := cache.SetStock(ctx, p.ID(), p.Stock()); err != nil {
			log.Fatalf("failed to mirror stock for product %d: %v", p.ID().Int64(), err)
		}
	}
	log.Printf("mirrored stock for %d products", len(products))

	httpHandler := handler.NewHTTPHandler(categoryService, customerService, productService, orderService, cache)
	mux := http.NewServeMux()
	httpHandler.Register(mux)

	httpServer := &http.Server{
		Addr:    envOr("HTTP_ADDR", defaultHTTPAddr),
		Handler: mux,
	}

	go func() {
		log.Printf("HTTP server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Println("HTTP server stopped")

	rdb.Close()
	db.Close()
	log.Println("connections closed")
}
