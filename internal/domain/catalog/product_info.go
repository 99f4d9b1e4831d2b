package catalog

import (
	"strings"

	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductInfo is a listing: one shop's sellable offer of a product.
// Listings are replaced wholesale on every catalog import and never edited in place.
type ProductInfo struct {
	shared.BaseEntity
	ProductID  int64
	ShopID     int64
	Article    string
	Model      string
	Name       string
	Price      decimal.Decimal
	PriceRRC   *decimal.Decimal
	Quantity   int
	Parameters []ProductParameter
}

// ProductParameter is the value of a Parameter on one listing
type ProductParameter struct {
	ID            int64
	ProductInfoID int64
	ParameterID   int64
	ParameterName string
	Value         string
}

// ProductInfoInput carries the listing attributes read from a feed
type ProductInfoInput struct {
	Article  string
	Model    string
	Name     string
	Price    decimal.Decimal
	PriceRRC *decimal.Decimal
	Quantity int
}

// NewProductInfo creates a listing of a product in a shop
func NewProductInfo(productID, shopID int64, in ProductInfoInput) (*ProductInfo, error) {
	if productID == 0 {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product cannot be empty")
	}
	if shopID == 0 {
		return nil, shared.NewDomainError("INVALID_SHOP", "Shop cannot be empty")
	}
	article := strings.TrimSpace(in.Article)
	if article == "" {
		return nil, shared.NewDomainError("INVALID_ARTICLE", "Article cannot be empty")
	}
	if len(article) > 100 {
		return nil, shared.NewDomainError("INVALID_ARTICLE", "Article cannot exceed 100 characters")
	}
	if in.Price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if in.PriceRRC != nil && in.PriceRRC.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Recommended retail price cannot be negative")
	}
	if in.Quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}

	var rrc *decimal.Decimal
	if in.PriceRRC != nil {
		v := in.PriceRRC.Round(2)
		rrc = &v
	}

	return &ProductInfo{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		ShopID:     shopID,
		Article:    article,
		Model:      strings.TrimSpace(in.Model),
		Name:       strings.TrimSpace(in.Name),
		Price:      in.Price.Round(2),
		PriceRRC:   rrc,
		Quantity:   in.Quantity,
		Parameters: make([]ProductParameter, 0),
	}, nil
}

// SetParameter attaches a parameter value; a repeated parameter overwrites the earlier value
func (p *ProductInfo) SetParameter(param *Parameter, value string) error {
	if param == nil || param.ID == 0 {
		return shared.NewDomainError("INVALID_PARAMETER", "Parameter must be persisted before use")
	}
	for i := range p.Parameters {
		if p.Parameters[i].ParameterID == param.ID {
			p.Parameters[i].Value = value
			return nil
		}
	}
	p.Parameters = append(p.Parameters, ProductParameter{
		ProductInfoID: p.ID,
		ParameterID:   param.ID,
		ParameterName: param.Name,
		Value:         value,
	})
	return nil
}
