// Stress harness for the no-oversell property: many concurrent one-unit
// orders against a single product must succeed exactly stock times, and
// cancelling every successful order must restore the initial stock.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rl1809/ecommerce-core/internal/adapter/storage"
	"github.com/rl1809/ecommerce-core/internal/core/domain"
	"github.com/rl1809/ecommerce-core/internal/core/service"
)

const (
	initialStock  = 20
	totalRequests = 50
)

func main() {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	categories := service.NewCategoryService(store.Categories())
	customers := service.NewCustomerService(store.Customers())
	products := service.NewProductService(store.Products(), store.Categories(), store)
	orders := service.NewOrderService(store.Orders(), store.Products(), store.Customers(), store)

	category, err := categories.Create(ctx, "Electronics", "")
	if err != nil {
		log.Fatalf("seed category: %v", err)
	}
	customer, err := customers.Create(ctx, service.CustomerInput{
		FirstName:   "Stress",
		LastName:    "Tester",
		Email:       "stress@example.com",
		PhoneNumber: "000-0000",
	})
	if err != nil {
		log.Fatalf("seed customer: %v", err)
	}
	price, _ := domain.MoneyFromString("999.99")
	product, err := products.Create(ctx, "flash-sale-item", "", price, initialStock, category.ID().Int64())
	if err != nil {
		log.Fatalf("seed product: %v", err)
	}

	var successCount, soldOutCount atomic.Int32
	var orderIDs sync.Map

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			order, err := orders.CreateOrder(ctx, customer.ID().Int64(), []service.OrderItemInput{
				{ProductID: product.ID().Int64(), Quantity: 1},
			})
			switch {
			case err == nil:
				successCount.Add(1)
				orderIDs.Store(order.ID().Int64(), struct{}{})
			case errors.Is(err, domain.ErrInsufficientStock):
				soldOutCount.Add(1)
			default:
				log.Printf("request %d: unexpected error: %v", n, err)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	soldOut := soldOutCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Sold Out:         %d\n", soldOut)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if success == initialStock && soldOut == totalRequests-initialStock {
		fmt.Printf("PASS: exactly %d orders succeeded, %d were rejected\n", initialStock, totalRequests-initialStock)
	} else {
		fmt.Printf("FAIL: expected %d success/%d sold out, got %d/%d\n",
			initialStock, totalRequests-initialStock, success, soldOut)
	}

	remaining, err := products.Get(ctx, product.ID().Int64())
	if err != nil {
		log.Fatalf("reload product: %v", err)
	}
	fmt.Printf("Final Stock:      %d\n", remaining.Stock())
	if remaining.Stock() != 0 {
		fmt.Printf("FAIL: expected stock 0, got %d\n", remaining.Stock())
	}

	// Conservation: cancelling every successful order restores the stock.
	orderIDs.Range(func(key, _ any) bool {
		if err := orders.Cancel(ctx, key.(int64)); err != nil {
			log.Fatalf("cancel order %d: %v", key.(int64), err)
		}
		return true
	})

	restored, err := products.Get(ctx, product.ID().Int64())
	if err != nil {
		log.Fatalf("reload product: %v", err)
	}
	fmt.Printf("After Cancels:    %d\n", restored.Stock())
	if restored.Stock() == initialStock {
		fmt.Println("PASS: stock conserved after cancelling all orders")
	} else {
		fmt.Printf("FAIL: expected stock %d after cancels, got %d\n", initialStock, restored.Stock())
	}
}
