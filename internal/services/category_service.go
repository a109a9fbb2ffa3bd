package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"gorm.io/gorm"

	apperrors "easyenglish/internal/errors"
	"easyenglish/internal/logger"
	"easyenglish/internal/models"
	"easyenglish/internal/pagination"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// normalizeName trims the name and applies the rules shared by create,
// import and rename.
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if strings.IndexFunc(name, unicode.IsControl) != -1 {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "category name must not contain control characters")
	}
	if utf8.RuneCountInString(name) > models.CategoryNameMaxLength {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("category name must be at most %d characters", models.CategoryNameMaxLength))
	}
	return name, nil
}

// ensureUniqueName returns ErrDuplicateCategory if another live category
// already uses name (case-insensitive). excludeID skips the category being renamed.
func ensureUniqueName(db *gorm.DB, name string, excludeID uint) error {
	var count int64
	query := db.Model(&models.Category{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateCategory
	}
	return nil
}

// writeError maps a failed insert or update. A unique index violation means
// another writer took the name after ensureUniqueName ran.
func writeError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrDuplicateCategory
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := ensureUniqueName(db, name, 0); err != nil {
		return nil, err
	}

	category := &models.Category{Name: name}
	if err := db.Create(category).Error; err != nil {
		return nil, writeError(err)
	}

	logger.Named("categories").Infow("category created", "id", category.ID, "name", category.Name)
	return category, nil
}

// ImportCategories creates every name in a single transaction. One invalid
// or duplicate name (including duplicates within the batch) rolls back the
// whole import.
func (s *categoryService) ImportCategories(ctx context.Context, names []string) ([]models.Category, error) {
	if len(names) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one category is required")
	}

	normalized := make([]string, len(names))
	seen := make(map[string]struct{}, len(names))
	for i, raw := range names {
		name, err := normalizeName(raw)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return nil, apperrors.WithMessage(apperrors.ErrDuplicateCategory,
				fmt.Sprintf("category %q appears more than once", name))
		}
		seen[key] = struct{}{}
		normalized[i] = name
	}

	created := make([]models.Category, 0, len(normalized))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range normalized {
			if err := ensureUniqueName(tx, name, 0); err != nil {
				if errors.Is(err, apperrors.ErrDuplicateCategory) {
					return apperrors.WithMessage(apperrors.ErrDuplicateCategory,
						fmt.Sprintf("category %q already exists", name))
				}
				return err
			}
			category := models.Category{Name: name}
			if err := tx.Create(&category).Error; err != nil {
				mapped := writeError(err)
				if errors.Is(mapped, apperrors.ErrDuplicateCategory) {
					return apperrors.WithMessage(apperrors.ErrDuplicateCategory,
						fmt.Sprintf("category %q already exists", name))
				}
				return mapped
			}
			created = append(created, category)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Named("categories").Infow("categories imported", "count", len(created))
	return created, nil
}

// GetCategories retrieves a paginated list of categories ordered by ID.
func (s *categoryService) GetCategories(ctx context.Context, page pagination.PageRequest, filter CategoryFilter) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Category{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		base = base.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(search))+"%")
	}
	base = base.Session(&gorm.Session{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Order("id ASC").Scopes(pagination.Paginate(page)).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAllCategories returns every live category ordered by name.
func (s *categoryService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID
func (s *categoryService) GetCategoryByID(ctx context.Context, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory renames an existing category
func (s *categoryService) UpdateCategory(ctx context.Context, categoryID uint, name string) (*models.Category, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	category, err := s.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.Name == name {
		return category, nil
	}

	db := s.db.WithContext(ctx)
	if err := ensureUniqueName(db, name, categoryID); err != nil {
		return nil, err
	}

	if err := db.Model(category).Update("name", name).Error; err != nil {
		return nil, writeError(err)
	}
	category.Name = name

	return category, nil
}

// DeleteCategory soft-deletes a category
func (s *categoryService) DeleteCategory(ctx context.Context, categoryID uint) error {
	category, err := s.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Named("categories").Infow("category deleted", "id", categoryID)
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
