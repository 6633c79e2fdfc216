package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rl1809/ecommerce-core/internal/adapter/storage"
	"github.com/rl1809/ecommerce-core/internal/core/domain"
)

func newProductEnv(t *testing.T) (*ProductService, *domain.Category) {
	t.Helper()
	store := storage.NewMemoryStore()
	categories := NewCategoryService(store.Categories())
	products := NewProductService(store.Products(), store.Categories(), store)

	category, err := categories.Create(context.Background(), "Electronics", "")
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return products, category
}

func mustMoney(t *testing.T, s string) domain.Money {
	t.Helper()
	m, err := domain.MoneyFromString(s)
	if err != nil {
		t.Fatalf("parse money %q: %v", s, err)
	}
	return m
}

func TestProductService_CreateAndGet(t *testing.T) {
	products, category := newProductEnv(t)
	ctx := context.Background()

	created, err := products.Create(ctx, "Phone", "a phone", mustMoney(t, "199.99"), 10, category.ID().Int64())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID().IsZero() {
		t.Error("expected assigned id")
	}

	got, err := products.Get(ctx, created.ID().Int64())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.Name() != "Phone" || got.Stock() != 10 {
		t.Errorf("unexpected product: %+v", got)
	}

	byCategory, err := products.ListByCategory(ctx, category.ID().Int64())
	if err != nil || len(byCategory) != 1 {
		t.Errorf("ListByCategory: got %d products, err %v", len(byCategory), err)
	}
}

func TestProductService_CreateRejections(t *testing.T) {
	products, category := newProductEnv(t)
	ctx := context.Background()

	if _, err := products.Create(ctx, "Phone", "", mustMoney(t, "10"), 1, 9999); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("unknown category: expected ErrCategoryNotFound, got %v", err)
	}

	if _, err := products.Create(ctx, "Phone", "", mustMoney(t, "10"), 1, category.ID().Int64()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := products.Create(ctx, "Phone", "", mustMoney(t, "20"), 1, category.ID().Int64()); !errors.Is(err, ErrDuplicateValue) {
		t.Errorf("duplicate name: expected ErrDuplicateValue, got %v", err)
	}

	if _, err := products.Create(ctx, "Freebie", "", domain.ZeroMoney(), 1, category.ID().Int64()); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("zero price: expected ErrInvalidArgument, got %v", err)
	}
}

func TestProductService_Update(t *testing.T) {
	products, category := newProductEnv(t)
	ctx := context.Background()

	created, _ := products.Create(ctx, "Phone", "a phone", mustMoney(t, "100"), 5, category.ID().Int64())
	products.Create(ctx, "Tablet", "", mustMoney(t, "200"), 5, category.ID().Int64())

	updated, err := products.Update(ctx, created.ID().Int64(), "", "", mustMoney(t, "120"))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name() != "Phone" {
		t.Errorf("blank name should be ignored, got %s", updated.Name())
	}
	if !updated.Price().Equal(mustMoney(t, "120")) {
		t.Errorf("expected price 120, got %s", updated.Price())
	}

	if _, err := products.Update(ctx, created.ID().Int64(), "Tablet", "", domain.ZeroMoney()); !errors.Is(err, ErrDuplicateValue) {
		t.Errorf("rename collision: expected ErrDuplicateValue, got %v", err)
	}
	if _, err := products.Update(ctx, 9999, "X", "", domain.ZeroMoney()); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductService_StockOperations(t *testing.T) {
	products, category := newProductEnv(t)
	ctx := context.Background()

	created, _ := products.Create(ctx, "Phone", "", mustMoney(t, "100"), 5, category.ID().Int64())
	id := created.ID().Int64()

	if err := products.IncreaseStock(ctx, id, 3); err != nil {
		t.Fatalf("IncreaseStock failed: %v", err)
	}
	if err := products.DecreaseStock(ctx, id, 6); err != nil {
		t.Fatalf("DecreaseStock failed: %v", err)
	}
	got, _ := products.Get(ctx, id)
	if got.Stock() != 2 {
		t.Errorf("expected stock 2, got %d", got.Stock())
	}

	if err := products.DecreaseStock(ctx, id, 3); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Errorf("expected ErrInsufficientStock, got %v", err)
	}
	got, _ = products.Get(ctx, id)
	if got.Stock() != 2 {
		t.Errorf("failed decrement must not change stock: expected 2, got %d", got.Stock())
	}

	if err := products.IncreaseStock(ctx, 9999, 1); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductService_ConcurrentDecrease(t *testing.T) {
	products, category := newProductEnv(t)
	ctx := context.Background()

	created, _ := products.Create(ctx, "Phone", "", mustMoney(t, "100"), 10, category.ID().Int64())
	id := created.ID().Int64()

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			products.DecreaseStock(ctx, id, 1)
		}()
	}
	wg.Wait()

	got, _ := products.Get(ctx, id)
	if got.Stock() != 0 {
		t.Errorf("expected stock drained to exactly 0, got %d", got.Stock())
	}
}

func TestProductService_Delete(t *testing.T) {
	products, category := newProductEnv(t)
	ctx := context.Background()

	created, _ := products.Create(ctx, "Phone", "", mustMoney(t, "100"), 5, category.ID().Int64())
	if err := products.Delete(ctx, created.ID().Int64()); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := products.Delete(ctx, created.ID().Int64()); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}
