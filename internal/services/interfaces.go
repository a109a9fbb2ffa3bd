package services

import (
	"context"

	"easyenglish/internal/models"
	"easyenglish/internal/pagination"
)

// CategoryFilter holds optional filter parameters for listing categories.
type CategoryFilter struct {
	// Search matches names containing the value, case-insensitively.
	Search string
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	ImportCategories(ctx context.Context, names []string) ([]models.Category, error)
	GetCategories(ctx context.Context, page pagination.PageRequest, filter CategoryFilter) (*pagination.PageResponse[models.Category], error)
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, categoryID uint) (*models.Category, error)
	UpdateCategory(ctx context.Context, categoryID uint, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, categoryID uint) error
}
