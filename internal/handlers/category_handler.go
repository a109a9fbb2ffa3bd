package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"easyenglish/internal/dto"
	apperrors "easyenglish/internal/errors"
	"easyenglish/internal/export"
	"easyenglish/internal/models"
	"easyenglish/internal/pagination"
	"easyenglish/internal/services"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents the request payload for creating a category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,category_name"`
}

// UpdateCategoryRequest represents the request payload for renaming a category
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required,category_name"`
}

// CategoryEnvelope wraps a single category in a response.
type CategoryEnvelope struct {
	Category dto.CategoryResponse `json:"category"`
}

// CategoryListEnvelope wraps the categories created by an import.
type CategoryListEnvelope struct {
	Categories []dto.CategoryResponse `json:"categories"`
}

// RegisterRoutes mounts the category endpoints on the given group.
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	categories.POST("", h.CreateCategory)
	categories.POST("/import", h.ImportCategories)
	categories.GET("", h.GetCategories)
	categories.GET("/export", h.ExportCategories)
	categories.GET("/:id", h.GetCategoryByID)
	categories.PUT("/:id", h.UpdateCategory)
	categories.DELETE("/:id", h.DeleteCategory)
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Description Create a new category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} CategoryEnvelope "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CategoryEnvelope{Category: dto.FromCategory(category)})
}

// ImportCategories handles bulk creation from an array of category records
// @Summary     Import categories
// @Description Create several categories at once. Each element is a category record; ids are ignored and assigned by the server. The import is all-or-nothing.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       request body []dto.CategoryResponse true "Categories to create"
// @Success     201 {object} CategoryListEnvelope "Categories created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/import [post]
func (h *CategoryHandler) ImportCategories(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "unable to read request body"))
		return
	}
	if err := dto.ValidateCategoryListJSON(body); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var records []dto.CategoryResponse
	if err := json.Unmarshal(body, &records); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "request body must be an array of categories"))
		return
	}

	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}

	created, err := h.categoryService.ImportCategories(c.Request.Context(), names)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CategoryListEnvelope{Categories: dto.FromCategories(created)})
}

// GetCategories handles listing categories
// @Summary     List categories
// @Description Get a paginated list of categories ordered by id
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       search    query string false "Case-insensitive substring of the name"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[dto.CategoryResponse] "Paginated categories"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.CategoryFilter{Search: c.Query("search")}
	result, err := h.categoryService.GetCategories(c.Request.Context(), page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.Map(*result, func(m models.Category) dto.CategoryResponse {
		return dto.FromCategory(&m)
	}))
}

// ExportCategories handles downloading all categories as a spreadsheet
// @Summary     Export categories
// @Description Download every category as an XLSX workbook, ordered by name
// @Tags        categories
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success     200 {file} file "categories.xlsx"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/export [get]
func (h *CategoryHandler) ExportCategories(c *gin.Context) {
	categories, err := h.categoryService.GetAllCategories(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	data, err := export.CategoriesXLSX(dto.FromCategories(categories))
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="categories.xlsx"`)
	c.Data(http.StatusOK, export.XLSXContentType, data)
}

// GetCategoryByID handles the retrieval of a specific category
// @Summary     Get category by ID
// @Description Get a specific category by ID
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id path int true "Category ID"
// @Success     200 {object} CategoryEnvelope "Category details"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(c.Request.Context(), categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, CategoryEnvelope{Category: dto.FromCategory(category)})
}

// UpdateCategory handles renaming a category
// @Summary     Update category
// @Description Rename an existing category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id path int true "Category ID"
// @Param       request body UpdateCategoryRequest true "New name"
// @Success     200 {object} CategoryEnvelope "Updated category"
// @Failure     400 {object} ErrorResponse "Invalid input or category ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), categoryID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, CategoryEnvelope{Category: dto.FromCategory(category)})
}

// DeleteCategory handles deleting a category
// @Summary     Delete category
// @Description Delete a category by ID
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id path int true "Category ID"
// @Success     200 {object} MessageResponse "Category deleted"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Category deleted successfully"})
}
