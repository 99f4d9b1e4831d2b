package catalog

import (
	"context"

	"github.com/d8nd8/python-final-diplom/internal/domain/catalog"
	"github.com/d8nd8/python-final-diplom/internal/domain/identity"
	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
)

// ListingService serves the public product search
type ListingService struct {
	listings catalog.ListingQueryRepository
	shops    catalog.ShopRepository
}

// NewListingService creates a new ListingService
func NewListingService(listings catalog.ListingQueryRepository, shops catalog.ShopRepository) *ListingService {
	return &ListingService{listings: listings, shops: shops}
}

// Search returns one page of listings matching the filter
func (s *ListingService) Search(ctx context.Context, filter catalog.ListingFilter) (shared.Paginated[ListingResponse], error) {
	if filter.Ordering == "" {
		filter.Ordering = catalog.DefaultListingOrdering
	}
	if !catalog.IsValidListingOrdering(filter.Ordering) {
		return shared.Paginated[ListingResponse]{}, shared.NewDomainError("INVALID_ORDERING",
			"ordering must be one of: name, -name, price, -price, quantity, -quantity")
	}
	if filter.PriceMin != nil && filter.PriceMax != nil && filter.PriceMin.GreaterThan(*filter.PriceMax) {
		return shared.Paginated[ListingResponse]{}, shared.NewDomainError("INVALID_INPUT", "price_min cannot exceed price_max")
	}

	page := shared.Filter{Page: filter.Page, PageSize: filter.PageSize}.Normalize()
	filter.Page, filter.PageSize = page.Page, page.PageSize

	listings, total, err := s.listings.Search(ctx, filter)
	if err != nil {
		return shared.Paginated[ListingResponse]{}, err
	}
	return shared.NewPaginated(ToListingResponses(listings), total, page.Page, page.PageSize), nil
}

// GetByID returns one listing with its characteristics
func (s *ListingService) GetByID(ctx context.Context, id int64) (*ListingResponse, error) {
	listing, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToListingResponse(listing)
	return &resp, nil
}

// ListShops returns the shops owned by a shop account
func (s *ListingService) ListShops(ctx context.Context, userID int64, userType string) ([]ShopResponse, error) {
	if userType != identity.UserTypeShop.String() {
		return nil, shared.NewDomainError(ErrCodeNotShopUser, "Only shop accounts own shops")
	}
	shops, err := s.shops.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]ShopResponse, 0, len(shops))
	for i := range shops {
		out = append(out, ToShopResponse(&shops[i]))
	}
	return out, nil
}
