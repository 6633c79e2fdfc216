package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category groups products. Name uniqueness across categories is enforced by
// the application service through the repository's natural-key lookup.
type Category struct {
	id          CategoryID
	name        string
	description string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewCategory builds an unpersisted category; the id is assigned on save.
func NewCategory(name, description string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: category name cannot be empty", ErrInvalidArgument)
	}
	now := time.Now()
	return &Category{
		name:        name,
		description: description,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// RestoreCategory hydrates a category from storage without re-validation.
func RestoreCategory(id CategoryID, name, description string, createdAt, updatedAt time.Time) *Category {
	return &Category{
		id:          id,
		name:        name,
		description: description,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (c *Category) ID() CategoryID       { return c.id }
func (c *Category) Name() string         { return c.name }
func (c *Category) Description() string  { return c.description }
func (c *Category) CreatedAt() time.Time { return c.createdAt }
func (c *Category) UpdatedAt() time.Time { return c.updatedAt }

// AssignID is called once by the storage layer after the first insert.
func (c *Category) AssignID(id CategoryID) error {
	if !c.id.IsZero() {
		return fmt.Errorf("%w: category id already assigned", ErrInvalidArgument)
	}
	if id.IsZero() {
		return fmt.Errorf("%w: category id must be positive", ErrInvalidArgument)
	}
	c.id = id
	return nil
}

func (c *Category) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: category name cannot be empty", ErrInvalidArgument)
	}
	c.name = name
	c.updatedAt = time.Now()
	return nil
}

func (c *Category) ChangeDescription(description string) {
	c.description = description
	c.updatedAt = time.Now()
}
