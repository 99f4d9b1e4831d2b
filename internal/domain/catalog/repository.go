package catalog

import "context"

// ShopRepository defines the interface for shop persistence
type ShopRepository interface {
	Create(ctx context.Context, shop *Shop) error
	Update(ctx context.Context, shop *Shop) error
	FindByID(ctx context.Context, id int64) (*Shop, error)
	FindByName(ctx context.Context, name string) (*Shop, error)
	FindByUser(ctx context.Context, userID int64) ([]Shop, error)
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// Create inserts the category keeping its feed-supplied ID
	Create(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id int64) (*Category, error)

	// AttachShop links a shop to the category; linking twice is a no-op
	AttachShop(ctx context.Context, categoryID, shopID int64) error
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByNameAndCategory(ctx context.Context, name string, categoryID int64) (*Product, error)
}

// ParameterRepository defines the interface for parameter persistence
type ParameterRepository interface {
	Create(ctx context.Context, parameter *Parameter) error
	FindByName(ctx context.Context, name string) (*Parameter, error)
}

// ProductInfoRepository defines the interface for listing persistence
type ProductInfoRepository interface {
	// Create inserts the listing together with its parameter values
	Create(ctx context.Context, info *ProductInfo) error
	FindByID(ctx context.Context, id int64) (*ProductInfo, error)
	FindByArticle(ctx context.Context, article string) (*ProductInfo, error)

	// DeleteByShop removes every listing of the shop and their parameter values
	DeleteByShop(ctx context.Context, shopID int64) (int64, error)
	CountByShop(ctx context.Context, shopID int64) (int64, error)
}

// ListingQueryRepository serves the public product search
type ListingQueryRepository interface {
	Search(ctx context.Context, filter ListingFilter) ([]Listing, int64, error)
	FindByID(ctx context.Context, id int64) (*Listing, error)
}
