// Package dto holds the records that cross the service boundary. They carry
// values only; validation and persistence belong to the services that
// produce and consume them.
package dto

import (
	"fmt"

	"easyenglish/internal/models"
)

// CategoryResponse carries a category's identifier and display name.
//
// The zero value is a valid, empty record. Fields are assigned in place;
// WithID and WithName return modified copies instead. The type is
// comparable, so == and map keys use both fields.
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewCategoryResponse returns a fully populated record.
func NewCategoryResponse(id int64, name string) CategoryResponse {
	return CategoryResponse{ID: id, Name: name}
}

// WithID returns a copy of r with ID replaced.
func (r CategoryResponse) WithID(id int64) CategoryResponse {
	r.ID = id
	return r
}

// WithName returns a copy of r with Name replaced.
func (r CategoryResponse) WithName(name string) CategoryResponse {
	r.Name = name
	return r
}

// Equal reports whether both records hold the same ID and Name.
func (r CategoryResponse) Equal(other CategoryResponse) bool {
	return r == other
}

// IsZero reports whether neither field has been set.
func (r CategoryResponse) IsZero() bool {
	return r == CategoryResponse{}
}

func (r CategoryResponse) String() string {
	return fmt.Sprintf("CategoryResponse(id=%d, name=%s)", r.ID, r.Name)
}

// FromCategory maps a persisted category onto its transfer record.
func FromCategory(c *models.Category) CategoryResponse {
	if c == nil {
		return CategoryResponse{}
	}
	return CategoryResponse{ID: int64(c.ID), Name: c.Name}
}

// FromCategories maps a slice of persisted categories, preserving order.
// A nil input yields an empty, non-nil slice so it encodes as [].
func FromCategories(categories []models.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = FromCategory(&categories[i])
	}
	return out
}
