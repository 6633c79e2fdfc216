package service

import "errors"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")

	// ErrDuplicateValue reports a collision on a unique natural key:
	// category or product name, customer email or phone number.
	ErrDuplicateValue = errors.New("duplicate unique value")
)
