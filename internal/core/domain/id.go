package domain

import "fmt"

// Identifier types wrap the positive integers MySQL assigns on insert.
// Distinct named types keep a ProductID from being passed where a
// CustomerID is expected. The zero value means "not yet persisted".

type CategoryID int64

type CustomerID int64

type ProductID int64

type OrderID int64

func NewCategoryID(v int64) (CategoryID, error) {
	if v <= 0 {
		return 0, fmt.Errorf("%w: category id must be positive, got %d", ErrInvalidArgument, v)
	}
	return CategoryID(v), nil
}

func NewCustomerID(v int64) (CustomerID, error) {
	if v <= 0 {
		return 0, fmt.Errorf("%w: customer id must be positive, got %d", ErrInvalidArgument, v)
	}
	return CustomerID(v), nil
}

func NewProductID(v int64) (ProductID, error) {
	if v <= 0 {
		return 0, fmt.Errorf("%w: product id must be positive, got %d", ErrInvalidArgument, v)
	}
	return ProductID(v), nil
}

func NewOrderID(v int64) (OrderID, error) {
	if v <= 0 {
		return 0, fmt.Errorf("%w: order id must be positive, got %d", ErrInvalidArgument, v)
	}
	return OrderID(v), nil
}

func (id CategoryID) Int64() int64 { return int64(id) }
func (id CustomerID) Int64() int64 { return int64(id) }
func (id ProductID) Int64() int64  { return int64(id) }
func (id OrderID) Int64() int64    { return int64(id) }

func (id CategoryID) IsZero() bool { return id == 0 }
func (id CustomerID) IsZero() bool { return id == 0 }
func (id ProductID) IsZero() bool  { return id == 0 }
func (id OrderID) IsZero() bool    { return id == 0 }
