package persistence

import (
	"context"
	"time"

	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/d8nd8/python-final-diplom/internal/domain/trade"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

func orderItemsByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// FindByUser returns the user's cart with its items
func (r *GormCartRepository) FindByUser(ctx context.Context, userID int64) (*trade.Cart, error) {
	var model models.CartModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByID).
		Where("user_id = ?", userID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Create inserts an empty cart and writes the generated ID back
func (r *GormCartRepository) Create(ctx context.Context, cart *trade.Cart) error {
	model := models.CartModelFromDomain(cart)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return translateError(err)
	}
	cart.ID = model.ID
	return nil
}

// AddItem inserts the item or, when the listing is already in the cart,
// adds item.Quantity to the stored row in a single upsert.
func (r *GormCartRepository) AddItem(ctx context.Context, item *trade.CartItem) error {
	now := time.Now()
	model := &models.CartItemModel{
		CartID:        item.CartID,
		ProductInfoID: item.ProductInfoID,
		Quantity:      item.Quantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_info_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   r.incrementQuantity(),
			"updated_at": now,
		}),
	}).Create(model).Error; err != nil {
		return translateError(err)
	}
	if model.ID != 0 {
		item.ID = model.ID
	}
	return nil
}

func (r *GormCartRepository) incrementQuantity() clause.Expr {
	if r.db.Dialector.Name() == "mysql" {
		return gorm.Expr("quantity + VALUES(quantity)")
	}
	return gorm.Expr("cart_items.quantity + excluded.quantity")
}

// DeleteItem removes one item from the cart
func (r *GormCartRepository) DeleteItem(ctx context.Context, cartID, itemID int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&models.CartItemModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("CART_ITEM_NOT_FOUND", "Cart item")
	}
	return nil
}

// Clear removes every item of the cart
func (r *GormCartRepository) Clear(ctx context.Context, cartID int64) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItemModel{}).Error
}

type cartLineRow struct {
	ItemID        int64
	ProductInfoID int64
	ShopID        int64
	ProductName   string
	ShopName      string
	Quantity      int
	Price         decimal.Decimal
}

// Lines returns the cart items joined with their listing and shop, in insertion order
func (r *GormCartRepository) Lines(ctx context.Context, cartID int64) ([]trade.CartLine, error) {
	var rows []cartLineRow
	if err := r.db.WithContext(ctx).
		Table("cart_items AS ci").
		Select("ci.id AS item_id, pi.id AS product_info_id, s.id AS shop_id, pi.name AS product_name, " +
			"s.name AS shop_name, ci.quantity AS quantity, pi.price AS price").
		Joins("JOIN product_infos AS pi ON pi.id = ci.product_info_id").
		Joins("JOIN shops AS s ON s.id = pi.shop_id").
		Where("ci.cart_id = ?", cartID).
		Order("ci.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	lines := make([]trade.CartLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, trade.CartLine(row))
	}
	return lines, nil
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order with its items and writes generated IDs back
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	order.ID = model.ID
	for i := range model.Items {
		order.Items[i].ID = model.Items[i].ID
		order.Items[i].OrderID = model.ID
	}
	return nil
}

// UpdateStatus persists the status and contact of an order whose stored status is still from
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, order *trade.Order, from trade.OrderStatus) error {
	order.Touch()
	db := r.db.WithContext(ctx)
	result := db.Model(&models.OrderModel{}).
		Where("id = ? AND status = ?", order.ID, string(from)).
		Updates(map[string]any{
			"status":     order.Status,
			"contact_id": order.ContactID,
			"updated_at": order.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&models.OrderModel{}).Where("id = ?", order.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.NewNotFoundError("ORDER_NOT_FOUND", "Order")
	}
	return shared.ErrConflict
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id int64) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Preload("Items", orderItemsByID).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUser finds an order placed by the user
func (r *GormOrderRepository) FindByIDForUser(ctx context.Context, userID, id int64) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByID).
		Where("id = ? AND user_id = ?", id, userID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByUser lists the user's orders, newest first
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID int64) ([]trade.Order, error) {
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByID).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]trade.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, *rows[i].ToDomain())
	}
	return orders, nil
}

var (
	_ trade.CartRepository  = (*GormCartRepository)(nil)
	_ trade.OrderRepository = (*GormOrderRepository)(nil)
)
