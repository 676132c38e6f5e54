package service

import (
	"context"

	"github.com/tech-help/helpdesk-service/internal/domain"
	"github.com/tech-help/helpdesk-service/internal/repository"
	apperrors "github.com/tech-help/helpdesk-service/pkg/util"
)

// CategoryService handles the admin-managed category catalog.
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService builds the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// CategoryInput describes a category payload.
type CategoryInput struct {
	Name        string
	Description string
}

// Create adds a category.
func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	category := &domain.Category{
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// Get fetches one category.
func (s *CategoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundIfNoRows(err, "category", id)
	}
	return category, nil
}

// Update applies the provided category changes.
func (s *CategoryService) Update(ctx context.Context, id int64, input CategoryInput) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundIfNoRows(err, "category", id)
	}
	if input.Name != "" {
		category.Name = input.Name
	}
	if input.Description != "" {
		category.Description = input.Description
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, notFoundIfNoRows(err, "category", id)
	}
	return category, nil
}

// Delete removes a category.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return notFoundIfNoRows(err, "category", id)
	}
	return nil
}
