package catalog

import (
	"strings"

	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
)

// Product is the shop-independent description of a good, identified by (name, category).
// Products are never deleted by catalog imports.
type Product struct {
	shared.BaseEntity
	Name       string
	CategoryID int64
}

// NewProduct creates a product in a category
func NewProduct(name string, categoryID int64) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	if categoryID <= 0 {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Product category cannot be empty")
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		CategoryID: categoryID,
	}, nil
}

// Parameter is a named free-form attribute such as "Color" or "Diagonal (inch)"
type Parameter struct {
	ID   int64
	Name string
}

// NewParameter creates a parameter definition
func NewParameter(name string) (*Parameter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PARAMETER_NAME", "Parameter name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_PARAMETER_NAME", "Parameter name cannot exceed 100 characters")
	}
	return &Parameter{Name: name}, nil
}
