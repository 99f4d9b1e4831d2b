package catalog

import "github.com/shopspring/decimal"

// Listing is the read model served by the product search
type Listing struct {
	ID              int64
	Article         string
	Name            string
	Model           string
	ProductName     string
	CategoryName    string
	ShopID          int64
	ShopName        string
	Price           decimal.Decimal
	PriceRRC        *decimal.Decimal
	Quantity        int
	Characteristics []Characteristic
}

// Characteristic is a parameter name/value pair of a listing
type Characteristic struct {
	Parameter string
	Value     string
}

// Listing orderings accepted by the product search
const (
	OrderByName            = "name"
	OrderByNameDesc        = "-name"
	OrderByPrice           = "price"
	OrderByPriceDesc       = "-price"
	OrderByQuantity        = "quantity"
	OrderByQuantityDesc    = "-quantity"
	DefaultListingOrdering = OrderByName
)

// IsValidListingOrdering checks an ordering parameter
func IsValidListingOrdering(ordering string) bool {
	switch ordering {
	case OrderByName, OrderByNameDesc, OrderByPrice, OrderByPriceDesc, OrderByQuantity, OrderByQuantityDesc:
		return true
	}
	return false
}

// ListingFilter narrows the product search. Text filters match case-insensitively by substring.
type ListingFilter struct {
	Name        string
	Category    string
	Supplier    string
	Search      string
	PriceMin    *decimal.Decimal
	PriceMax    *decimal.Decimal
	QuantityMin *int
	QuantityMax *int
	Ordering    string
	Page        int
	PageSize    int
}
