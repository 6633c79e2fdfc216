package service

import (
	"context"
	"fmt"

	"github.com/rl1809/ecommerce-core/internal/core/domain"
	"github.com/rl1809/ecommerce-core/internal/port"
)

type ProductService struct {
	products   port.ProductRepository
	categories port.CategoryRepository
	tx         port.Transactor
}

func NewProductService(products port.ProductRepository, categories port.CategoryRepository, tx port.Transactor) *ProductService {
	return &ProductService{products: products, categories: categories, tx: tx}
}

func (s *ProductService) Create(ctx context.Context, name, description string, price domain.Money, stock int, categoryID int64) (*domain.Product, error) {
	cid, err := domain.NewCategoryID(categoryID)
	if err != nil {
		return nil, err
	}
	exists, err := s.categories.Exists(ctx, cid)
	if err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: id %d", ErrCategoryNotFound, categoryID)
	}

	existing, err := s.products.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find product by name: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: product %q already exists", ErrDuplicateValue, name)
	}

	product, err := domain.NewProduct(name, description, price, stock, cid)
	if err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	productID, err := domain.NewProductID(id)
	if err != nil {
		return nil, err
	}
	return s.products.FindByID(ctx, productID)
}

func (s *ProductService) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	return s.products.FindByName(ctx, name)
}

func (s *ProductService) ListByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error) {
	cid, err := domain.NewCategoryID(categoryID)
	if err != nil {
		return nil, err
	}
	return s.products.FindByCategory(ctx, cid)
}

func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.products.FindAll(ctx)
}

// Update merges name/description/price; blank or zero-valued fields are left
// unchanged. Renaming to a name held by another product fails.
func (s *ProductService) Update(ctx context.Context, id int64, name, description string, price domain.Money) (*domain.Product, error) {
	productID, err := domain.NewProductID(id)
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}

	if name != "" && name != product.Name() {
		other, err := s.products.FindByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("find product by name: %w", err)
		}
		if other != nil {
			return nil, fmt.Errorf("%w: product %q already exists", ErrDuplicateValue, name)
		}
	}

	product.UpdateInfo(name, description, price)

	if err := s.products.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	return product, nil
}

// IncreaseStock adds quantity units inside a transaction so concurrent stock
// updates against the same product serialize at the storage layer.
func (s *ProductService) IncreaseStock(ctx context.Context, id int64, quantity int) error {
	productID, err := domain.NewProductID(id)
	if err != nil {
		return err
	}
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return fmt.Errorf("find product: %w", err)
		}
		if product == nil {
			return fmt.Errorf("%w: id %d", ErrProductNotFound, id)
		}
		if err := product.IncreaseStock(quantity); err != nil {
			return err
		}
		return s.products.Save(ctx, product)
	})
}

func (s *ProductService) DecreaseStock(ctx context.Context, id int64, quantity int) error {
	productID, err := domain.NewProductID(id)
	if err != nil {
		return err
	}
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return fmt.Errorf("find product: %w", err)
		}
		if product == nil {
			return fmt.Errorf("%w: id %d", ErrProductNotFound, id)
		}
		if err := product.DecreaseStock(quantity); err != nil {
			return err
		}
		return s.products.Save(ctx, product)
	})
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	productID, err := domain.NewProductID(id)
	if err != nil {
		return err
	}
	exists, err := s.products.Exists(ctx, productID)
	if err != nil {
		return fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}
	return s.products.Delete(ctx, productID)
}
