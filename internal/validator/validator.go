// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("category_name", validateCategoryName)
	}
}

// validateCategoryName rejects names that are blank after trimming or that
// contain control characters such as newlines or tabs.
func validateCategoryName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if strings.TrimSpace(name) == "" {
		return false
	}
	return strings.IndexFunc(name, unicode.IsControl) == -1
}
