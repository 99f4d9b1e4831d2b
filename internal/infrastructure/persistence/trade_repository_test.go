package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/d8nd8/python-final-diplom/internal/domain/trade"
	"github.com/d8nd8/python-final-diplom/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCartRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()

	shop := testShop(t, db, "Acme", 1)
	testCategory(t, db, 1, "Tools")
	product := testProduct(t, db, "Hammer", 1)
	hammer := testListing(t, db, product.ID, shop.ID, listingSpec{article: "SKU1", name: "Hammer", price: "10.25", quantity: 5})
	nails := testListing(t, db, product.ID, shop.ID, listingSpec{article: "SKU2", name: "Nails", price: "1.5", quantity: 500})

	_, err := repo.FindByUser(ctx, 7)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	cart, err := trade.NewCart(7)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, cart))
	assert.NotZero(t, cart.ID)

	first := &trade.CartItem{CartID: cart.ID, ProductInfoID: hammer.ID, Quantity: 2}
	require.NoError(t, repo.AddItem(ctx, first))
	assert.NotZero(t, first.ID)
	require.NoError(t, repo.AddItem(ctx, &trade.CartItem{CartID: cart.ID, ProductInfoID: nails.ID, Quantity: 100}))
	require.NoError(t, repo.AddItem(ctx, &trade.CartItem{CartID: cart.ID, ProductInfoID: hammer.ID, Quantity: 1}))

	loaded, err := repo.FindByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, first.ID, loaded.Items[0].ID)
	assert.Equal(t, 3, loaded.Items[0].Quantity)

	lines, err := repo.Lines(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Hammer", lines[0].ProductName)
	assert.Equal(t, "Acme", lines[0].ShopName)
	assert.Equal(t, shop.ID, lines[0].ShopID)
	assert.True(t, decimal.RequireFromString("30.75").Equal(lines[0].Subtotal()))

	require.NoError(t, repo.DeleteItem(ctx, cart.ID, first.ID))
	assert.ErrorIs(t, repo.DeleteItem(ctx, cart.ID, first.ID), shared.NewNotFoundError("CART_ITEM_NOT_FOUND", "Cart item"))

	require.NoError(t, repo.Clear(ctx, cart.ID))
	lines, err = repo.Lines(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestGormCartRepository_OverlappingAddsAccumulate(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()

	shop := testShop(t, db, "Acme", 1)
	testCategory(t, db, 1, "Tools")
	product := testProduct(t, db, "Hammer", 1)
	hammer := testListing(t, db, product.ID, shop.ID, listingSpec{article: "SKU1", name: "Hammer", price: "10", quantity: 50})

	cart, err := trade.NewCart(7)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, cart))
	require.NoError(t, repo.AddItem(ctx, &trade.CartItem{CartID: cart.ID, ProductInfoID: hammer.ID, Quantity: 1}))

	// two requests read the same cart before either writes
	firstRead, err := repo.FindByUser(ctx, 7)
	require.NoError(t, err)
	secondRead, err := repo.FindByUser(ctx, 7)
	require.NoError(t, err)
	_, err = firstRead.Add(hammer.ID, 2)
	require.NoError(t, err)
	_, err = secondRead.Add(hammer.ID, 3)
	require.NoError(t, err)

	require.NoError(t, repo.AddItem(ctx, &trade.CartItem{CartID: cart.ID, ProductInfoID: hammer.ID, Quantity: 2}))
	require.NoError(t, repo.AddItem(ctx, &trade.CartItem{CartID: cart.ID, ProductInfoID: hammer.ID, Quantity: 3}))

	loaded, err := repo.FindByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 6, loaded.Items[0].Quantity)
}

func TestGormOrderRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	order, err := trade.NewOrder(7, 3)
	require.NoError(t, err)
	require.NoError(t, order.SnapshotItem(trade.CartLine{ProductInfoID: 11, ShopID: 1, ProductName: "Hammer", ShopName: "Acme", Quantity: 2, Price: decimal.RequireFromString("10.25")}))
	require.NoError(t, order.SnapshotItem(trade.CartLine{ProductInfoID: 12, ShopID: 1, ProductName: "Nails", ShopName: "Acme", Quantity: 100, Price: decimal.RequireFromString("1.50")}))
	require.NoError(t, repo.Create(ctx, order))
	assert.NotZero(t, order.ID)
	for _, item := range order.Items {
		assert.NotZero(t, item.ID)
		assert.Equal(t, order.ID, item.OrderID)
	}

	t.Run("owner lookup", func(t *testing.T) {
		found, err := repo.FindByIDForUser(ctx, 7, order.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.OrderStatusPending, found.Status)
		require.Len(t, found.Items, 2)
		assert.True(t, decimal.RequireFromString("170.5").Equal(found.Total()))

		_, err = repo.FindByIDForUser(ctx, 8, order.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("update status and contact", func(t *testing.T) {
		require.NoError(t, order.Confirm(4))
		require.NoError(t, repo.UpdateStatus(ctx, order, trade.OrderStatusPending))

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.OrderStatusConfirmed, found.Status)
		require.NotNil(t, found.ContactID)
		assert.Equal(t, int64(4), *found.ContactID)
		assert.Len(t, found.Items, 2)
	})

	t.Run("stale status is a conflict", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		stale.Status = trade.OrderStatusPending
		require.NoError(t, stale.Confirm(9))

		err = repo.UpdateStatus(ctx, stale, trade.OrderStatusPending)
		assert.ErrorIs(t, err, shared.ErrConflict)

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(4), *found.ContactID)
	})

	t.Run("update missing order", func(t *testing.T) {
		ghost, err := trade.NewOrder(7, 3)
		require.NoError(t, err)
		ghost.ID = 9999
		assert.ErrorIs(t, repo.UpdateStatus(ctx, ghost, trade.OrderStatusPending), shared.NewNotFoundError("ORDER_NOT_FOUND", "Order"))
	})

	t.Run("list newest first", func(t *testing.T) {
		later, err := trade.NewOrder(7, 3)
		require.NoError(t, err)
		later.CreatedAt = time.Now().Add(time.Minute)
		require.NoError(t, later.SnapshotItem(trade.CartLine{ProductInfoID: 11, ShopID: 1, ProductName: "Hammer", ShopName: "Acme", Quantity: 1, Price: decimal.NewFromInt(10)}))
		require.NoError(t, repo.Create(ctx, later))

		orders, err := repo.FindByUser(ctx, 7)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, later.ID, orders[0].ID)
		assert.Equal(t, order.ID, orders[1].ID)

		orders, err = repo.FindByUser(ctx, 8)
		require.NoError(t, err)
		assert.Empty(t, orders)
	})
}
