package trade

import (
	"context"

	"github.com/d8nd8/python-final-diplom/internal/domain/identity"
	"github.com/d8nd8/python-final-diplom/internal/domain/trade"
)

// TransactionScope provides transactional access to cart and order repositories.
// Checkout creates the order and empties the cart inside one Execute call.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories a checkout touches.
// All repositories returned share the same underlying database transaction.
type TransactionalRepositories interface {
	CartRepo() trade.CartRepository
	OrderRepo() trade.OrderRepository
	ContactRepo() identity.ContactRepository
}
