package models

import (
	"github.com/d8nd8/python-final-diplom/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ShopModel is the persistence model for the Shop domain entity.
type ShopModel struct {
	BaseModel
	Name   string `gorm:"type:varchar(100);not null;uniqueIndex"`
	URL    string `gorm:"type:varchar(500)"`
	UserID int64  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ShopModel) TableName() string {
	return "shops"
}

// ToDomain converts the persistence model to a domain Shop entity.
func (m *ShopModel) ToDomain() *catalog.Shop {
	return &catalog.Shop{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		URL:        m.URL,
		UserID:     m.UserID,
	}
}

// ShopModelFromDomain creates a new persistence model from a domain Shop entity.
func ShopModelFromDomain(s *catalog.Shop) *ShopModel {
	m := &ShopModel{Name: s.Name, URL: s.URL, UserID: s.UserID}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}

// CategoryModel is the persistence model for the Category domain entity.
// IDs come from partner feeds and are never generated.
type CategoryModel struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
	}
}

// CategoryModelFromDomain creates a new persistence model from a domain Category entity.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{Name: c.Name}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// ShopCategoryModel links shops to the categories they sell in.
type ShopCategoryModel struct {
	ShopID     int64 `gorm:"primaryKey;autoIncrement:false"`
	CategoryID int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

// TableName returns the table name for GORM
func (ShopCategoryModel) TableName() string {
	return "shop_categories"
}

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	Name       string `gorm:"type:varchar(200);not null;uniqueIndex:idx_products_name_category"`
	CategoryID int64  `gorm:"not null;uniqueIndex:idx_products_name_category;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		CategoryID: m.CategoryID,
	}
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{Name: p.Name, CategoryID: p.CategoryID}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// ParameterModel is the persistence model for parameter definitions.
type ParameterModel struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (ParameterModel) TableName() string {
	return "parameters"
}

// ProductInfoModel is the persistence model for the ProductInfo (listing) domain entity.
type ProductInfoModel struct {
	BaseModel
	ProductID  int64                   `gorm:"not null;index"`
	ShopID     int64                   `gorm:"not null;index"`
	Article    string                  `gorm:"type:varchar(100);not null;uniqueIndex"`
	Model      string                  `gorm:"type:varchar(100)"`
	Name       string                  `gorm:"type:varchar(200);not null"`
	Price      decimal.Decimal         `gorm:"type:decimal(12,2);not null"`
	PriceRRC   decimal.NullDecimal     `gorm:"type:decimal(12,2)"`
	Quantity   int                     `gorm:"not null;default:0"`
	Parameters []ProductParameterModel `gorm:"foreignKey:ProductInfoID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ProductInfoModel) TableName() string {
	return "product_infos"
}

// ToDomain converts the persistence model to a domain ProductInfo entity.
// Parameter names are filled only when the Parameter association was loaded.
func (m *ProductInfoModel) ToDomain() *catalog.ProductInfo {
	info := &catalog.ProductInfo{
		BaseEntity: m.BaseModel.ToDomain(),
		ProductID:  m.ProductID,
		ShopID:     m.ShopID,
		Article:    m.Article,
		Model:      m.Model,
		Name:       m.Name,
		Price:      m.Price,
		Quantity:   m.Quantity,
		Parameters: make([]catalog.ProductParameter, 0, len(m.Parameters)),
	}
	if m.PriceRRC.Valid {
		rrc := m.PriceRRC.Decimal
		info.PriceRRC = &rrc
	}
	for i := range m.Parameters {
		info.Parameters = append(info.Parameters, m.Parameters[i].ToDomain())
	}
	return info
}

// ProductInfoModelFromDomain creates a new persistence model from a domain ProductInfo entity.
func ProductInfoModelFromDomain(p *catalog.ProductInfo) *ProductInfoModel {
	m := &ProductInfoModel{
		ProductID: p.ProductID,
		ShopID:    p.ShopID,
		Article:   p.Article,
		Model:     p.Model,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  p.Quantity,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	if p.PriceRRC != nil {
		m.PriceRRC = decimal.NewNullDecimal(*p.PriceRRC)
	}
	return m
}

// ProductParameterModel is the value of one parameter on one listing.
type ProductParameterModel struct {
	ID            int64          `gorm:"primaryKey;autoIncrement"`
	ProductInfoID int64          `gorm:"not null;uniqueIndex:idx_product_parameters_info_param"`
	ParameterID   int64          `gorm:"not null;uniqueIndex:idx_product_parameters_info_param;index"`
	Value         string         `gorm:"type:varchar(200);not null"`
	Parameter     ParameterModel `gorm:"foreignKey:ParameterID"`
}

// TableName returns the table name for GORM
func (ProductParameterModel) TableName() string {
	return "product_parameters"
}

// ToDomain converts the persistence model to a domain ProductParameter
func (m *ProductParameterModel) ToDomain() catalog.ProductParameter {
	return catalog.ProductParameter{
		ID:            m.ID,
		ProductInfoID: m.ProductInfoID,
		ParameterID:   m.ParameterID,
		ParameterName: m.Parameter.Name,
		Value:         m.Value,
	}
}
