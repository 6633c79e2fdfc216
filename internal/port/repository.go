package port

import (
	"context"

	"github.com/rl1809/ecommerce-core/internal/core/domain"
)

// Finders return (nil, nil) when the aggregate is absent; errors are reserved
// for storage failures. Save is an upsert: unpersisted aggregates get their
// id assigned.

type CategoryRepository interface {
	FindByID(ctx context.Context, id domain.CategoryID) (*domain.Category, error)
	FindByName(ctx context.Context, name string) (*domain.Category, error)
	FindAll(ctx context.Context) ([]*domain.Category, error)
	Save(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id domain.CategoryID) error
	Exists(ctx context.Context, id domain.CategoryID) (bool, error)
}

type CustomerRepository interface {
	FindByID(ctx context.Context, id domain.CustomerID) (*domain.Customer, error)
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
	FindByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.Customer, error)
	FindAll(ctx context.Context) ([]*domain.Customer, error)
	Save(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id domain.CustomerID) error
	Exists(ctx context.Context, id domain.CustomerID) (bool, error)
}

type ProductRepository interface {
	FindByID(ctx context.Context, id domain.ProductID) (*domain.Product, error)
	FindByName(ctx context.Context, name string) (*domain.Product, error)
	FindByCategory(ctx context.Context, categoryID domain.CategoryID) ([]*domain.Product, error)
	FindAll(ctx context.Context) ([]*domain.Product, error)
	Save(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id domain.ProductID) error
	Exists(ctx context.Context, id domain.ProductID) (bool, error)
}

type OrderRepository interface {
	FindByID(ctx context.Context, id domain.OrderID) (*domain.Order, error)
	FindByCustomer(ctx context.Context, customerID domain.CustomerID) ([]*domain.Order, error)
	FindByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error)
	FindAll(ctx context.Context) ([]*domain.Order, error)
	Save(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, id domain.OrderID) error
	Exists(ctx context.Context, id domain.OrderID) (bool, error)
}

// Transactor groups the reads and writes of one coordination-service
// operation into an atomic unit. Repository calls made with the ctx passed
// to fn run inside that unit; fn returning an error rolls it back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
