package persistence

import (
	"context"

	appcatalog "github.com/d8nd8/python-final-diplom/internal/application/catalog"
	apptrade "github.com/d8nd8/python-final-diplom/internal/application/trade"
	"github.com/d8nd8/python-final-diplom/internal/domain/catalog"
	"github.com/d8nd8/python-final-diplom/internal/domain/identity"
	"github.com/d8nd8/python-final-diplom/internal/domain/trade"
	"gorm.io/gorm"
)

// GormCatalogTransactionScope implements the catalog TransactionScope using GORM transactions.
type GormCatalogTransactionScope struct {
	db *gorm.DB
}

// NewGormCatalogTransactionScope creates a new GormCatalogTransactionScope.
func NewGormCatalogTransactionScope(db *gorm.DB) *GormCatalogTransactionScope {
	return &GormCatalogTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormCatalogTransactionScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormCatalogRepositories{tx: tx})
	})
}

type gormCatalogRepositories struct {
	tx *gorm.DB
}

func (r *gormCatalogRepositories) ShopRepo() catalog.ShopRepository {
	return NewGormShopRepository(r.tx)
}

func (r *gormCatalogRepositories) CategoryRepo() catalog.CategoryRepository {
	return NewGormCategoryRepository(r.tx)
}

func (r *gormCatalogRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormCatalogRepositories) ParameterRepo() catalog.ParameterRepository {
	return NewGormParameterRepository(r.tx)
}

func (r *gormCatalogRepositories) ProductInfoRepo() catalog.ProductInfoRepository {
	return NewGormProductInfoRepository(r.tx)
}

// GormTradeTransactionScope implements the trade TransactionScope using GORM transactions.
type GormTradeTransactionScope struct {
	db *gorm.DB
}

// NewGormTradeTransactionScope creates a new GormTradeTransactionScope.
func NewGormTradeTransactionScope(db *gorm.DB) *GormTradeTransactionScope {
	return &GormTradeTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormTradeTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTradeRepositories{tx: tx})
	})
}

type gormTradeRepositories struct {
	tx *gorm.DB
}

func (r *gormTradeRepositories) CartRepo() trade.CartRepository {
	return NewGormCartRepository(r.tx)
}

func (r *gormTradeRepositories) OrderRepo() trade.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTradeRepositories) ContactRepo() identity.ContactRepository {
	return NewGormContactRepository(r.tx)
}

var (
	_ appcatalog.TransactionScope          = (*GormCatalogTransactionScope)(nil)
	_ appcatalog.TransactionalRepositories = (*gormCatalogRepositories)(nil)
	_ apptrade.TransactionScope            = (*GormTradeTransactionScope)(nil)
	_ apptrade.TransactionalRepositories   = (*gormTradeRepositories)(nil)
)
