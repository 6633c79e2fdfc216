package service

import (
	"context"
	"fmt"

	"github.com/rl1809/ecommerce-core/internal/core/domain"
	"github.com/rl1809/ecommerce-core/internal/port"
)

type CategoryService struct {
	categories port.CategoryRepository
}

func NewCategoryService(categories port.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) Create(ctx context.Context, name, description string) (*domain.Category, error) {
	existing, err := s.categories.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: category %q already exists", ErrDuplicateValue, name)
	}

	category, err := domain.NewCategory(name, description)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, fmt.Errorf("save category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	categoryID, err := domain.NewCategoryID(id)
	if err != nil {
		return nil, err
	}
	return s.categories.FindByID(ctx, categoryID)
}

func (s *CategoryService) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	return s.categories.FindByName(ctx, name)
}

func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.FindAll(ctx)
}

// Update renames and/or re-describes a category; blank fields are left
// unchanged. Renaming to a name held by another category fails.
func (s *CategoryService) Update(ctx context.Context, id int64, name, description string) (*domain.Category, error) {
	categoryID, err := domain.NewCategoryID(id)
	if err != nil {
		return nil, err
	}
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if category == nil {
		return nil, fmt.Errorf("%w: id %d", ErrCategoryNotFound, id)
	}

	if name != "" && name != category.Name() {
		other, err := s.categories.FindByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("find category by name: %w", err)
		}
		if other != nil {
			return nil, fmt.Errorf("%w: category %q already exists", ErrDuplicateValue, name)
		}
		if err := category.Rename(name); err != nil {
			return nil, err
		}
	}
	if description != "" {
		category.ChangeDescription(description)
	}

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, fmt.Errorf("save category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	categoryID, err := domain.NewCategoryID(id)
	if err != nil {
		return err
	}
	exists, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: id %d", ErrCategoryNotFound, id)
	}
	return s.categories.Delete(ctx, categoryID)
}
