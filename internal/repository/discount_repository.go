package repository

import (
	"context"
	"time"

	"coffee-shop/internal/entity"
)

func (r *Repository) CreateDiscount(ctx context.Context, d *entity.Discount) error {
	return r.conn(ctx).Create(d).Error
}

func (r *Repository) GetDiscount(ctx context.Context, id uint) (*entity.Discount, error) {
	var d entity.Discount
	if err := r.conn(ctx).First(&d, id).Error; err != nil {
		return nil, notFound(err, "discount %d not found", id)
	}
	return &d, nil
}

// ListDiscounts returns discounts for a customer, or general discounts when
// customerID is nil.
func (r *Repository) ListDiscounts(ctx context.Context, customerID *uint, includeRedeemed bool) ([]entity.Discount, error) {
	var discounts []entity.Discount
	q := r.conn(ctx)
	if customerID != nil {
		q = q.Where("customer_id = ?", *customerID)
	} else {
		q = q.Where("customer_id IS NULL")
	}
	if !includeRedeemed {
		q = q.Where("is_redeemed = ?", false)
	}
	err := q.Order("created_at DESC, id DESC").Find(&discounts).Error
	return discounts, err
}

// RedeemDiscount flips is_redeemed false→true. It reports false when another
// redemption already won.
func (r *Repository) RedeemDiscount(ctx context.Context, id uint, now time.Time) (bool, error) {
	res := r.conn(ctx).Model(&entity.Discount{}).
		Where("id = ? AND is_redeemed = ?", id, false).
		Updates(map[string]interface{}{"is_redeemed": true, "used_at": now})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
