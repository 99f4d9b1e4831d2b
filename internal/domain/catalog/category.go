package catalog

import (
	"strings"

	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
)

// Category groups products. Its ID is supplied by partner feeds and stays stable across imports.
type Category struct {
	shared.BaseEntity
	Name string
}

// NewCategory creates a category with a feed-supplied identifier
func NewCategory(id int64, name string) (*Category, error) {
	if id <= 0 {
		return nil, shared.NewDomainError("INVALID_CATEGORY_ID", "Category ID must be positive")
	}
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	category := &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}
	category.ID = id
	return category, nil
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}
