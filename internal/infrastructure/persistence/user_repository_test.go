package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/d8nd8/python-final-diplom/internal/domain/identity"
	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/d8nd8/python-final-diplom/internal/domain/trade"
	"github.com/d8nd8/python-final-diplom/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUserRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user := testUser(t, db, "buyer@example.com", identity.UserTypeBuyer)
	assert.NotZero(t, user.ID)

	t.Run("find by email is case-insensitive", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "  BUYER@example.com ")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.False(t, found.IsActive)
	})

	t.Run("exists by email", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "buyer@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := &identity.User{BaseEntity: shared.NewBaseEntity(), Email: "buyer@example.com", PasswordHash: "x", Type: identity.UserTypeBuyer}
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("update persists activation and avatar variants", func(t *testing.T) {
		user.Activate()
		user.SetAvatarVariants(map[string]string{identity.AvatarSmall: "http://cdn/small.png"})
		require.NoError(t, repo.Update(ctx, user))

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, found.IsActive)
		assert.Equal(t, "http://cdn/small.png", found.AvatarVariants[identity.AvatarSmall])
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 9999)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormEmailConfirmTokenRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormEmailConfirmTokenRepository(db)
	ctx := context.Background()
	user := testUser(t, db, "shop@example.com", identity.UserTypeShop)

	live, err := identity.NewEmailConfirmToken(user.ID, time.Hour)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, live))

	stale, err := identity.NewEmailConfirmToken(user.ID, time.Hour)
	require.NoError(t, err)
	stale.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, repo.Create(ctx, stale))

	found, err := repo.FindByToken(ctx, live.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.UserID)
	assert.False(t, found.IsExpired())

	removed, err := repo.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = repo.FindByToken(ctx, stale.Token)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, live.ID))
	_, err = repo.FindByToken(ctx, live.Token)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormContactRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormContactRepository(db)
	ctx := context.Background()
	owner := testUser(t, db, "owner@example.com", identity.UserTypeBuyer)
	other := testUser(t, db, "other@example.com", identity.UserTypeBuyer)

	first := testContact(t, db, owner.ID)
	second := testContact(t, db, owner.ID)
	testContact(t, db, other.ID)

	t.Run("find by user", func(t *testing.T) {
		contacts, err := repo.FindByUser(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, contacts, 2)
		assert.Equal(t, first.ID, contacts[0].ID)
		assert.Equal(t, second.ID, contacts[1].ID)
	})

	t.Run("ownership check", func(t *testing.T) {
		_, err := repo.FindByIDForUser(ctx, other.ID, first.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		found, err := repo.FindByIDForUser(ctx, owner.ID, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Moscow", found.City)
	})

	t.Run("update", func(t *testing.T) {
		require.NoError(t, first.Update(identity.ContactInput{City: "Kazan", Street: "Baumana", Phone: "+71111111111"}))
		require.NoError(t, repo.Update(ctx, first))
		found, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Kazan", found.City)
	})

	t.Run("delete keeps orders with a null contact", func(t *testing.T) {
		order, err := trade.NewOrder(owner.ID, second.ID)
		require.NoError(t, err)
		orders := NewGormOrderRepository(db)
		require.NoError(t, orders.Create(ctx, order))

		require.NoError(t, repo.Delete(ctx, second.ID))

		reloaded, err := orders.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Nil(t, reloaded.ContactID)

		assert.ErrorIs(t, repo.Delete(ctx, second.ID), shared.ErrNotFound)
	})
}
