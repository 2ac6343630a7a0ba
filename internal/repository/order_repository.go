package repository

import (
	"context"
	"time"

	"coffee-shop/internal/apperror"
	"coffee-shop/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderFilter narrows ListOrders. Zero values mean "any".
type OrderFilter struct {
	CustomerID uint
	Status     entity.OrderStatus
	From, To   time.Time
	Limit      int
}

// NextOrderSequence bumps and returns the counter for day. The upsert holds
// the sequence row lock until the surrounding transaction commits, so two
// concurrent orders can never read the same value.
func (r *Repository) NextOrderSequence(ctx context.Context, day string) (int, error) {
	seq := entity.DailyOrderSequence{Day: day, LastValue: 1}
	err := r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"last_value": gorm.Expr("last_value + 1")}),
	}).Create(&seq).Error
	if err != nil {
		return 0, err
	}
	if err := r.conn(ctx).First(&seq, "day = ?", day).Error; err != nil {
		return 0, err
	}
	return seq.LastValue, nil
}

// CreateOrder inserts the order with its items and item addons.
func (r *Repository) CreateOrder(ctx context.Context, order *entity.Order) error {
	err := r.conn(ctx).Create(order).Error
	if IsDuplicateKey(err) {
		return apperror.NewConflict("order number %s already taken on %s", order.OrderNumber, order.OrderDay)
	}
	return err
}

func (r *Repository) GetOrder(ctx context.Context, id uint) (*entity.Order, error) {
	var order entity.Order
	err := r.conn(ctx).Preload("Items.Addons").
		Where("is_deleted = ?", false).First(&order, id).Error
	if err != nil {
		return nil, notFound(err, "order %d not found", id)
	}
	return &order, nil
}

func (r *Repository) ListOrders(ctx context.Context, f OrderFilter) ([]entity.Order, error) {
	var orders []entity.Order
	q := r.conn(ctx).Preload("Items.Addons").Where("is_deleted = ?", false)
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	err := q.Order("created_at DESC, id DESC").Find(&orders).Error
	return orders, err
}

func (r *Repository) UpdateOrder(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.conn(ctx).Model(&entity.Order{}).Where("id = ? AND is_deleted = ?", id, false).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NewNotFound("order %d not found", id)
	}
	return nil
}

func (r *Repository) SoftDeleteOrder(ctx context.Context, id uint, now time.Time) error {
	return r.UpdateOrder(ctx, id, map[string]interface{}{"is_deleted": true, "deleted_at": now})
}

func (r *Repository) CreatePaymentMethod(ctx context.Context, pm *entity.PaymentMethod) error {
	var count int64
	err := r.conn(ctx).Model(&entity.PaymentMethod{}).
		Where("order_id = ? AND is_deleted = ?", pm.OrderID, false).Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewConflict("order %d already has a payment method", pm.OrderID)
	}
	return r.conn(ctx).Create(pm).Error
}

func (r *Repository) GetPaymentMethod(ctx context.Context, id uint) (*entity.PaymentMethod, error) {
	var pm entity.PaymentMethod
	if err := r.conn(ctx).Where("is_deleted = ?", false).First(&pm, id).Error; err != nil {
		return nil, notFound(err, "payment method %d not found", id)
	}
	return &pm, nil
}

func (r *Repository) ListPaymentMethods(ctx context.Context, orderID uint) ([]entity.PaymentMethod, error) {
	var pms []entity.PaymentMethod
	q := r.conn(ctx).Where("is_deleted = ?", false)
	if orderID != 0 {
		q = q.Where("order_id = ?", orderID)
	}
	err := q.Order("id").Find(&pms).Error
	return pms, err
}

func (r *Repository) SoftDeletePaymentMethod(ctx context.Context, id uint, now time.Time) error {
	res := r.conn(ctx).Model(&entity.PaymentMethod{}).Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NewNotFound("payment method %d not found", id)
	}
	return nil
}

// LockOrder takes the order row lock, serialising payment-method writes
// for the same order.
func (r *Repository) LockOrder(ctx context.Context, id uint) (*entity.Order, error) {
	var order entity.Order
	err := r.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("is_deleted = ?", false).First(&order, id).Error
	if err != nil {
		return nil, notFound(err, "order %d not found", id)
	}
	return &order, nil
}
