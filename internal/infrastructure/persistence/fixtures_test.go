package persistence

import (
	"context"
	"testing"

	"github.com/d8nd8/python-final-diplom/internal/domain/catalog"
	"github.com/d8nd8/python-final-diplom/internal/domain/identity"
	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testUser stores a user without paying for bcrypt
func testUser(t *testing.T, db *gorm.DB, email string, userType identity.UserType) *identity.User {
	t.Helper()
	user := &identity.User{
		BaseEntity:     shared.NewBaseEntity(),
		Email:          email,
		PasswordHash:   "hash",
		Type:           userType,
		AvatarVariants: map[string]string{},
	}
	require.NoError(t, NewGormUserRepository(db).Create(context.Background(), user))
	return user
}

func testShop(t *testing.T, db *gorm.DB, name string, userID int64) *catalog.Shop {
	t.Helper()
	shop, err := catalog.NewShop(name, userID)
	require.NoError(t, err)
	require.NoError(t, NewGormShopRepository(db).Create(context.Background(), shop))
	return shop
}

func testCategory(t *testing.T, db *gorm.DB, id int64, name string) *catalog.Category {
	t.Helper()
	category, err := catalog.NewCategory(id, name)
	require.NoError(t, err)
	require.NoError(t, NewGormCategoryRepository(db).Create(context.Background(), category))
	return category
}

func testProduct(t *testing.T, db *gorm.DB, name string, categoryID int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, categoryID)
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Create(context.Background(), product))
	return product
}

func testParameter(t *testing.T, db *gorm.DB, name string) *catalog.Parameter {
	t.Helper()
	param, err := catalog.NewParameter(name)
	require.NoError(t, err)
	require.NoError(t, NewGormParameterRepository(db).Create(context.Background(), param))
	return param
}

type listingSpec struct {
	article  string
	name     string
	price    string
	quantity int
	params   map[*catalog.Parameter]string
}

func testListing(t *testing.T, db *gorm.DB, productID, shopID int64, spec listingSpec) *catalog.ProductInfo {
	t.Helper()
	info, err := catalog.NewProductInfo(productID, shopID, catalog.ProductInfoInput{
		Article:  spec.article,
		Name:     spec.name,
		Price:    decimal.RequireFromString(spec.price),
		Quantity: spec.quantity,
	})
	require.NoError(t, err)
	for param, value := range spec.params {
		require.NoError(t, info.SetParameter(param, value))
	}
	require.NoError(t, NewGormProductInfoRepository(db).Create(context.Background(), info))
	return info
}

func testContact(t *testing.T, db *gorm.DB, userID int64) *identity.Contact {
	t.Helper()
	contact, err := identity.NewContact(userID, identity.ContactInput{City: "Moscow", Street: "Tverskaya", House: "1", Phone: "+70000000000"})
	require.NoError(t, err)
	require.NoError(t, NewGormContactRepository(db).Create(context.Background(), contact))
	return contact
}
