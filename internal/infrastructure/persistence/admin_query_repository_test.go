package persistence

import (
	"context"
	"testing"

	appadmin "github.com/d8nd8/python-final-diplom/internal/application/admin"
	"github.com/d8nd8/python-final-diplom/internal/domain/identity"
	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/d8nd8/python-final-diplom/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormAdminQueryRepository_List(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormAdminQueryRepository(db)
	ctx := context.Background()

	testUser(t, db, "alice@example.com", identity.UserTypeBuyer)
	testUser(t, db, "bob@shop.com", identity.UserTypeShop)
	testUser(t, db, "carol@shop.com", identity.UserTypeShop)

	base := appadmin.ListQuery{
		Table:        "users",
		Columns:      []string{"id", "email", "type", "is_active"},
		SearchFields: []string{"email"},
	}

	t.Run("all rows ordered by id", func(t *testing.T) {
		rows, total, err := repo.List(ctx, base)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, rows, 3)
		assert.Equal(t, "alice@example.com", rows[0]["email"])
		assert.NotContains(t, rows[0], "password_hash")
	})

	t.Run("search", func(t *testing.T) {
		q := base
		q.Search = "SHOP.COM"
		rows, total, err := repo.List(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, rows, 2)
	})

	t.Run("filter and descending order", func(t *testing.T) {
		q := base
		q.Filters = map[string]string{"type": "shop"}
		q.OrderBy = "email"
		q.Descending = true
		rows, _, err := repo.List(ctx, q)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "carol@shop.com", rows[0]["email"])
		assert.Equal(t, "bob@shop.com", rows[1]["email"])
	})

	t.Run("pagination", func(t *testing.T) {
		q := base
		q.Page = 2
		q.PageSize = 2
		rows, total, err := repo.List(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, rows, 1)
		assert.Equal(t, "carol@shop.com", rows[0]["email"])
	})

	t.Run("unknown filter column", func(t *testing.T) {
		q := base
		q.Filters = map[string]string{"password_hash": "x"}
		_, _, err := repo.List(ctx, q)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_FILTER", de.Code)
	})
}
