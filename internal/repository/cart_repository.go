package repository

import (
	"context"
	"time"

	"coffee-shop/internal/apperror"
	"coffee-shop/internal/entity"

	"gorm.io/gorm/clause"
)

// GetActiveCart loads the customer's ACTIVE cart with its live items. With
// lock set the cart row is held FOR UPDATE until the transaction ends.
func (r *Repository) GetActiveCart(ctx context.Context, customerID uint, lock bool) (*entity.Cart, error) {
	var cart entity.Cart
	q := r.conn(ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Where("active_owner = ? AND status = ? AND is_deleted = ?", customerID, entity.CartStatusActive, false).
		First(&cart).Error
	if err != nil {
		return nil, notFound(err, "no active cart for customer %d", customerID)
	}

	err = r.conn(ctx).Preload("Addons").
		Where("cart_id = ? AND is_deleted = ?", cart.ID, false).
		Order("id").Find(&cart.Items).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// CreateActiveCart inserts a new ACTIVE cart. A concurrent insert for the
// same customer surfaces as a Conflict via the active_owner unique index.
func (r *Repository) CreateActiveCart(ctx context.Context, customerID uint) (*entity.Cart, error) {
	owner := customerID
	cart := entity.Cart{CustomerID: customerID, Status: entity.CartStatusActive, ActiveOwner: &owner}
	err := r.conn(ctx).Create(&cart).Error
	if IsDuplicateKey(err) {
		return nil, apperror.NewConflict("customer %d already has an active cart", customerID)
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// CloseCart moves an ACTIVE cart to status and releases the owner slot.
func (r *Repository) CloseCart(ctx context.Context, cartID uint, status entity.CartStatus) error {
	res := r.conn(ctx).Model(&entity.Cart{}).
		Where("id = ? AND status = ?", cartID, entity.CartStatusActive).
		Updates(map[string]interface{}{"status": status, "active_owner": nil})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NewConflict("cart %d is no longer active", cartID)
	}
	return nil
}

func (r *Repository) CreateCartItem(ctx context.Context, item *entity.CartItem) error {
	return r.conn(ctx).Create(item).Error
}

// ReplaceCartItem rewrites quantity, prices and the addon set of an item.
func (r *Repository) ReplaceCartItem(ctx context.Context, item *entity.CartItem) error {
	err := r.conn(ctx).Model(&entity.CartItem{}).Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"quantity":   item.Quantity,
			"unit_price": item.UnitPrice,
			"price":      item.Price,
		}).Error
	if err != nil {
		return err
	}
	if err := r.conn(ctx).Where("cart_item_id = ?", item.ID).Delete(&entity.CartItemAddon{}).Error; err != nil {
		return err
	}
	for i := range item.Addons {
		item.Addons[i].ID = 0
		item.Addons[i].CartItemID = item.ID
	}
	if len(item.Addons) == 0 {
		return nil
	}
	return r.conn(ctx).Create(&item.Addons).Error
}

func (r *Repository) SoftDeleteCartItem(ctx context.Context, cartID, itemID uint, now time.Time) error {
	res := r.conn(ctx).Model(&entity.CartItem{}).
		Where("id = ? AND cart_id = ? AND is_deleted = ?", itemID, cartID, false).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NewNotFound("cart item %d not found", itemID)
	}
	return nil
}
