package persistence

import (
	"context"
	"strings"

	"github.com/d8nd8/python-final-diplom/internal/domain/catalog"
	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// listingOrderings maps the public ordering parameter to SQL. Ties are broken by id.
var listingOrderings = map[string]string{
	catalog.OrderByName:         "p.name ASC, pi.id ASC",
	catalog.OrderByNameDesc:     "p.name DESC, pi.id ASC",
	catalog.OrderByPrice:        "pi.price ASC, pi.id ASC",
	catalog.OrderByPriceDesc:    "pi.price DESC, pi.id ASC",
	catalog.OrderByQuantity:     "pi.quantity ASC, pi.id ASC",
	catalog.OrderByQuantityDesc: "pi.quantity DESC, pi.id ASC",
}

const listingColumns = "pi.id AS id, pi.article AS article, pi.name AS name, pi.model AS model, " +
	"p.name AS product_name, c.name AS category_name, s.id AS shop_id, s.name AS shop_name, " +
	"pi.price AS price, pi.price_rrc AS price_rrc, pi.quantity AS quantity"

type listingRow struct {
	ID           int64
	Article      string
	Name         string
	Model        string
	ProductName  string
	CategoryName string
	ShopID       int64
	ShopName     string
	Price        decimal.Decimal
	PriceRRC     decimal.NullDecimal
	Quantity     int
}

func (r listingRow) toDomain() catalog.Listing {
	l := catalog.Listing{
		ID:              r.ID,
		Article:         r.Article,
		Name:            r.Name,
		Model:           r.Model,
		ProductName:     r.ProductName,
		CategoryName:    r.CategoryName,
		ShopID:          r.ShopID,
		ShopName:        r.ShopName,
		Price:           r.Price,
		Quantity:        r.Quantity,
		Characteristics: make([]catalog.Characteristic, 0),
	}
	if r.PriceRRC.Valid {
		rrc := r.PriceRRC.Decimal
		l.PriceRRC = &rrc
	}
	return l
}

type characteristicRow struct {
	ProductInfoID int64
	Parameter     string
	Value         string
}

// GormListingQueryRepository serves the product search over listings joined
// with their product, category and shop.
type GormListingQueryRepository struct {
	db *gorm.DB
}

// NewGormListingQueryRepository creates a new GormListingQueryRepository
func NewGormListingQueryRepository(db *gorm.DB) *GormListingQueryRepository {
	return &GormListingQueryRepository{db: db}
}

func (r *GormListingQueryRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("product_infos AS pi").
		Joins("JOIN products AS p ON p.id = pi.product_id").
		Joins("JOIN categories AS c ON c.id = p.category_id").
		Joins("JOIN shops AS s ON s.id = pi.shop_id")
}

// Search returns one page of listings matching the filter and the total match count
func (r *GormListingQueryRepository) Search(ctx context.Context, filter catalog.ListingFilter) ([]catalog.Listing, int64, error) {
	query := applyListingFilter(r.base(ctx), filter)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := shared.Filter{Page: filter.Page, PageSize: filter.PageSize}.Normalize()
	ordering, ok := listingOrderings[filter.Ordering]
	if !ok {
		ordering = listingOrderings[catalog.DefaultListingOrdering]
	}

	var rows []listingRow
	if err := query.Select(listingColumns).
		Order(ordering).
		Offset(page.Offset()).
		Limit(page.PageSize).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	listings := make([]catalog.Listing, 0, len(rows))
	for _, row := range rows {
		listings = append(listings, row.toDomain())
	}
	if err := r.attachCharacteristics(ctx, listings); err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

// FindByID returns one listing with its characteristics
func (r *GormListingQueryRepository) FindByID(ctx context.Context, id int64) (*catalog.Listing, error) {
	var rows []listingRow
	if err := r.base(ctx).Select(listingColumns).Where("pi.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.NewNotFoundError("PRODUCT_NOT_FOUND", "Product")
	}
	listings := []catalog.Listing{rows[0].toDomain()}
	if err := r.attachCharacteristics(ctx, listings); err != nil {
		return nil, err
	}
	return &listings[0], nil
}

func (r *GormListingQueryRepository) attachCharacteristics(ctx context.Context, listings []catalog.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(listings))
	index := make(map[int64]int, len(listings))
	for i, l := range listings {
		ids = append(ids, l.ID)
		index[l.ID] = i
	}

	var rows []characteristicRow
	if err := r.db.WithContext(ctx).
		Table("product_parameters AS pp").
		Select("pp.product_info_id AS product_info_id, par.name AS parameter, pp.value AS value").
		Joins("JOIN parameters AS par ON par.id = pp.parameter_id").
		Where("pp.product_info_id IN ?", ids).
		Order("par.name ASC").
		Scan(&rows).Error; err != nil {
		return err
	}
	for _, row := range rows {
		i := index[row.ProductInfoID]
		listings[i].Characteristics = append(listings[i].Characteristics, catalog.Characteristic{
			Parameter: row.Parameter,
			Value:     row.Value,
		})
	}
	return nil
}

func applyListingFilter(query *gorm.DB, f catalog.ListingFilter) *gorm.DB {
	if f.Name != "" {
		query = query.Where("LOWER(p.name) LIKE ?", containsPattern(f.Name))
	}
	if f.Category != "" {
		query = query.Where("LOWER(c.name) LIKE ?", containsPattern(f.Category))
	}
	if f.Supplier != "" {
		query = query.Where("LOWER(s.name) LIKE ?", containsPattern(f.Supplier))
	}
	if f.Search != "" {
		pattern := containsPattern(f.Search)
		query = query.Where("(LOWER(p.name) LIKE ? OR LOWER(s.name) LIKE ?)", pattern, pattern)
	}
	if f.PriceMin != nil {
		query = query.Where("pi.price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		query = query.Where("pi.price <= ?", *f.PriceMax)
	}
	if f.QuantityMin != nil {
		query = query.Where("pi.quantity >= ?", *f.QuantityMin)
	}
	if f.QuantityMax != nil {
		query = query.Where("pi.quantity <= ?", *f.QuantityMax)
	}
	return query
}

// containsPattern builds a LIKE pattern for a case-insensitive substring match
func containsPattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

var _ catalog.ListingQueryRepository = (*GormListingQueryRepository)(nil)
