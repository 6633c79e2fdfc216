package domain

import (
	"fmt"
	"strings"
	"time"
)

// Product owns the stock counter. IncreaseStock, DecreaseStock and
// HasEnoughStock are the only sanctioned ways to touch it, which keeps the
// conservation invariant checkable: stock only ever changes through them.
type Product struct {
	id          ProductID
	name        string
	description string
	price       Money
	stock       int
	categoryID  CategoryID
	createdAt   time.Time
	updatedAt   time.Time
}

func NewProduct(name, description string, price Money, stock int, categoryID CategoryID) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: product name cannot be empty", ErrInvalidArgument)
	}
	if price.IsZero() {
		return nil, fmt.Errorf("%w: product price must be greater than zero", ErrInvalidArgument)
	}
	if stock < 0 {
		return nil, fmt.Errorf("%w: product stock cannot be negative, got %d", ErrInvalidArgument, stock)
	}
	if categoryID.IsZero() {
		return nil, fmt.Errorf("%w: product must belong to a category", ErrInvalidArgument)
	}
	now := time.Now()
	return &Product{
		name:        name,
		description: description,
		price:       price,
		stock:       stock,
		categoryID:  categoryID,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func RestoreProduct(id ProductID, name, description string, price Money, stock int, categoryID CategoryID, createdAt, updatedAt time.Time) *Product {
	return &Product{
		id:          id,
		name:        name,
		description: description,
		price:       price,
		stock:       stock,
		categoryID:  categoryID,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (p *Product) ID() ProductID          { return p.id }
func (p *Product) Name() string           { return p.name }
func (p *Product) Description() string    { return p.description }
func (p *Product) Price() Money           { return p.price }
func (p *Product) Stock() int             { return p.stock }
func (p *Product) CategoryID() CategoryID { return p.categoryID }
func (p *Product) CreatedAt() time.Time   { return p.createdAt }
func (p *Product) UpdatedAt() time.Time   { return p.updatedAt }

func (p *Product) AssignID(id ProductID) error {
	if !p.id.IsZero() {
		return fmt.Errorf("%w: product id already assigned", ErrInvalidArgument)
	}
	if id.IsZero() {
		return fmt.Errorf("%w: product id must be positive", ErrInvalidArgument)
	}
	p.id = id
	return nil
}

// UpdateInfo merges the supplied fields; a blank name or description and a
// zero price mean "leave unchanged" (zero is never a legal price).
func (p *Product) UpdateInfo(name, description string, price Money) {
	if strings.TrimSpace(name) != "" {
		p.name = name
	}
	if strings.TrimSpace(description) != "" {
		p.description = description
	}
	if !price.IsZero() {
		p.price = price
	}
	p.updatedAt = time.Now()
}

func (p *Product) IncreaseStock(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidArgument, quantity)
	}
	p.stock += quantity
	p.updatedAt = time.Now()
	return nil
}

// DecreaseStock fails without mutating when stock would go negative.
func (p *Product) DecreaseStock(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidArgument, quantity)
	}
	if p.stock < quantity {
		return fmt.Errorf("%w: product %q has %d, requested %d", ErrInsufficientStock, p.name, p.stock, quantity)
	}
	p.stock -= quantity
	p.updatedAt = time.Now()
	return nil
}

func (p *Product) HasEnoughStock(quantity int) bool {
	return p.stock >= quantity
}
