package persistence

import (
	"context"

	"github.com/d8nd8/python-final-diplom/internal/domain/catalog"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormShopRepository implements ShopRepository using GORM
type GormShopRepository struct {
	db *gorm.DB
}

// NewGormShopRepository creates a new GormShopRepository
func NewGormShopRepository(db *gorm.DB) *GormShopRepository {
	return &GormShopRepository{db: db}
}

// Create inserts the shop and writes the generated ID back
func (r *GormShopRepository) Create(ctx context.Context, shop *catalog.Shop) error {
	model := models.ShopModelFromDomain(shop)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	shop.ID = model.ID
	return nil
}

// Update saves an existing shop
func (r *GormShopRepository) Update(ctx context.Context, shop *catalog.Shop) error {
	shop.Touch()
	return translateError(r.db.WithContext(ctx).Save(models.ShopModelFromDomain(shop)).Error)
}

// FindByID finds a shop by ID
func (r *GormShopRepository) FindByID(ctx context.Context, id int64) (*catalog.Shop, error) {
	var model models.ShopModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByName finds a shop by its unique name
func (r *GormShopRepository) FindByName(ctx context.Context, name string) (*catalog.Shop, error) {
	var model models.ShopModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByUser lists the shops owned by a user
func (r *GormShopRepository) FindByUser(ctx context.Context, userID int64) ([]catalog.Shop, error) {
	var rows []models.ShopModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	shops := make([]catalog.Shop, 0, len(rows))
	for i := range rows {
		shops = append(shops, *rows[i].ToDomain())
	}
	return shops, nil
}

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// Create inserts the category with its feed-supplied ID
func (r *GormCategoryRepository) Create(ctx context.Context, category *catalog.Category) error {
	return translateError(r.db.WithContext(ctx).Create(models.CategoryModelFromDomain(category)).Error)
}

// FindByID finds a category by ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id int64) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// AttachShop links the shop to the category, ignoring an existing link
func (r *GormCategoryRepository) AttachShop(ctx context.Context, categoryID, shopID int64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ShopCategoryModel{ShopID: shopID, CategoryID: categoryID}).Error
}

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Create inserts the product and writes the generated ID back
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	product.ID = model.ID
	return nil
}

// FindByNameAndCategory finds a product by its natural key
func (r *GormProductRepository) FindByNameAndCategory(ctx context.Context, name string, categoryID int64) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("name = ? AND category_id = ?", name, categoryID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// GormParameterRepository implements ParameterRepository using GORM
type GormParameterRepository struct {
	db *gorm.DB
}

// NewGormParameterRepository creates a new GormParameterRepository
func NewGormParameterRepository(db *gorm.DB) *GormParameterRepository {
	return &GormParameterRepository{db: db}
}

// Create inserts the parameter and writes the generated ID back
func (r *GormParameterRepository) Create(ctx context.Context, parameter *catalog.Parameter) error {
	model := &models.ParameterModel{Name: parameter.Name}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	parameter.ID = model.ID
	return nil
}

// FindByName finds a parameter by its unique name
func (r *GormParameterRepository) FindByName(ctx context.Context, name string) (*catalog.Parameter, error) {
	var model models.ParameterModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return &catalog.Parameter{ID: model.ID, Name: model.Name}, nil
}

// GormProductInfoRepository implements ProductInfoRepository using GORM
type GormProductInfoRepository struct {
	db *gorm.DB
}

// NewGormProductInfoRepository creates a new GormProductInfoRepository
func NewGormProductInfoRepository(db *gorm.DB) *GormProductInfoRepository {
	return &GormProductInfoRepository{db: db}
}

// Create inserts the listing and its parameter values
func (r *GormProductInfoRepository) Create(ctx context.Context, info *catalog.ProductInfo) error {
	model := models.ProductInfoModelFromDomain(info)
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(model).Error; err != nil {
		return translateError(err)
	}
	info.ID = model.ID

	if len(info.Parameters) == 0 {
		return nil
	}
	params := make([]models.ProductParameterModel, 0, len(info.Parameters))
	for _, p := range info.Parameters {
		params = append(params, models.ProductParameterModel{
			ProductInfoID: model.ID,
			ParameterID:   p.ParameterID,
			Value:         p.Value,
		})
	}
	if err := db.Omit(clause.Associations).Create(&params).Error; err != nil {
		return translateError(err)
	}
	for i := range params {
		info.Parameters[i].ID = params[i].ID
		info.Parameters[i].ProductInfoID = model.ID
	}
	return nil
}

// FindByID finds a listing with its parameter values
func (r *GormProductInfoRepository) FindByID(ctx context.Context, id int64) (*catalog.ProductInfo, error) {
	var model models.ProductInfoModel
	if err := r.db.WithContext(ctx).
		Preload("Parameters", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Parameters.Parameter").
		First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByArticle finds a listing by its globally unique article
func (r *GormProductInfoRepository) FindByArticle(ctx context.Context, article string) (*catalog.ProductInfo, error) {
	var model models.ProductInfoModel
	if err := r.db.WithContext(ctx).Where("article = ?", article).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// DeleteByShop removes every listing of the shop together with its parameter
// values and the cart items pointing at it. Order items are snapshots and stay.
func (r *GormProductInfoRepository) DeleteByShop(ctx context.Context, shopID int64) (int64, error) {
	db := r.db.WithContext(ctx)
	listingIDs := db.Model(&models.ProductInfoModel{}).Select("id").Where("shop_id = ?", shopID)

	if err := db.Where("product_info_id IN (?)", listingIDs).Delete(&models.ProductParameterModel{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("product_info_id IN (?)", listingIDs).Delete(&models.CartItemModel{}).Error; err != nil {
		return 0, err
	}
	result := db.Where("shop_id = ?", shopID).Delete(&models.ProductInfoModel{})
	return result.RowsAffected, result.Error
}

// CountByShop counts the listings of a shop
func (r *GormProductInfoRepository) CountByShop(ctx context.Context, shopID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductInfoModel{}).Where("shop_id = ?", shopID).Count(&count).Error
	return count, err
}

var (
	_ catalog.ShopRepository        = (*GormShopRepository)(nil)
	_ catalog.CategoryRepository    = (*GormCategoryRepository)(nil)
	_ catalog.ProductRepository     = (*GormProductRepository)(nil)
	_ catalog.ParameterRepository   = (*GormParameterRepository)(nil)
	_ catalog.ProductInfoRepository = (*GormProductInfoRepository)(nil)
)
