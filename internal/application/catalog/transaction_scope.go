package catalog

import (
	"context"

	"github.com/d8nd8/python-final-diplom/internal/domain/catalog"
)

// TransactionScope provides transactional access to catalog repositories.
// A catalog import runs entirely inside one Execute call and is rolled back
// as a whole when fn returns an error.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all catalog repositories within a transaction.
// All repositories returned share the same underlying database transaction.
type TransactionalRepositories interface {
	ShopRepo() catalog.ShopRepository
	CategoryRepo() catalog.CategoryRepository
	ProductRepo() catalog.ProductRepository
	ParameterRepo() catalog.ParameterRepository
	ProductInfoRepo() catalog.ProductInfoRepository
}
