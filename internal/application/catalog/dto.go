package catalog

import (
	"github.com/d8nd8/python-final-diplom/internal/domain/catalog"
	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ImportCatalogRequest represents a request to import a partner feed
type ImportCatalogRequest struct {
	URL string `json:"url" binding:"required,url,max=2048"`
}

// ImportCatalogInput identifies the requester and the feed to import
type ImportCatalogInput struct {
	UserID   int64
	UserType string
	URL      string
}

// ImportResult confirms a finished import.
// The counts describe what was written, not what changed.
type ImportResult struct {
	ShopID     int64  `json:"shop_id"`
	Shop       string `json:"shop"`
	Categories int    `json:"categories"`
	Listings   int    `json:"listings"`
}

// ShopResponse represents a partner shop in API responses
type ShopResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ToShopResponse converts a domain Shop to ShopResponse
func ToShopResponse(s *catalog.Shop) ShopResponse {
	return ShopResponse{ID: s.ID, Name: s.Name, URL: s.URL}
}

// ListingListQuery holds the product search query parameters
type ListingListQuery struct {
	Name        string `form:"name" binding:"max=200"`
	Category    string `form:"category" binding:"max=100"`
	Supplier    string `form:"supplier" binding:"max=100"`
	Search      string `form:"search" binding:"max=200"`
	PriceMin    string `form:"price_min" binding:"omitempty,numeric"`
	PriceMax    string `form:"price_max" binding:"omitempty,numeric"`
	QuantityMin *int   `form:"quantity_min" binding:"omitempty,min=0"`
	QuantityMax *int   `form:"quantity_max" binding:"omitempty,min=0"`
	Ordering    string `form:"ordering" binding:"omitempty,oneof=price -price quantity -quantity name -name"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToFilter converts the query into a listing filter
func (q ListingListQuery) ToFilter() (catalog.ListingFilter, error) {
	filter := catalog.ListingFilter{
		Name:        q.Name,
		Category:    q.Category,
		Supplier:    q.Supplier,
		Search:      q.Search,
		QuantityMin: q.QuantityMin,
		QuantityMax: q.QuantityMax,
		Ordering:    q.Ordering,
		Page:        q.Page,
		PageSize:    q.PageSize,
	}
	var err error
	if filter.PriceMin, err = parsePrice("price_min", q.PriceMin); err != nil {
		return filter, err
	}
	if filter.PriceMax, err = parsePrice("price_max", q.PriceMax); err != nil {
		return filter, err
	}
	return filter, nil
}

func parsePrice(field, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", field+" must be a number")
	}
	return &v, nil
}

// CharacteristicResponse is one parameter value of a listing
type CharacteristicResponse struct {
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
}

// ListingResponse represents a listing in API responses
type ListingResponse struct {
	ID              int64                    `json:"id"`
	Article         string                   `json:"article"`
	Name            string                   `json:"name"`
	Model           string                   `json:"model"`
	Product         string                   `json:"product"`
	Category        string                   `json:"category"`
	ShopID          int64                    `json:"shop_id"`
	Supplier        string                   `json:"supplier"`
	Characteristics []CharacteristicResponse `json:"characteristics"`
	Price           decimal.Decimal          `json:"price"`
	PriceRRC        *decimal.Decimal         `json:"price_rrc"`
	Quantity        int                      `json:"quantity"`
}

// ToListingResponse converts a domain Listing to ListingResponse
func ToListingResponse(l *catalog.Listing) ListingResponse {
	chars := make([]CharacteristicResponse, 0, len(l.Characteristics))
	for _, c := range l.Characteristics {
		chars = append(chars, CharacteristicResponse{Parameter: c.Parameter, Value: c.Value})
	}
	return ListingResponse{
		ID:              l.ID,
		Article:         l.Article,
		Name:            l.Name,
		Model:           l.Model,
		Product:         l.ProductName,
		Category:        l.CategoryName,
		ShopID:          l.ShopID,
		Supplier:        l.ShopName,
		Characteristics: chars,
		Price:           l.Price,
		PriceRRC:        l.PriceRRC,
		Quantity:        l.Quantity,
	}
}

// ToListingResponses converts a slice of listings
func ToListingResponses(listings []catalog.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		out = append(out, ToListingResponse(&listings[i]))
	}
	return out
}
