package repository

import (
	"context"
	"time"

	"coffee-shop/internal/entity"
)

// SalesOrders returns live, non-cancelled orders created in [from, to).
func (r *Repository) SalesOrders(ctx context.Context, from, to time.Time) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.conn(ctx).Preload("Items").
		Where("is_deleted = ? AND status <> ?", false, entity.OrderStatusCancelled).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at, id").
		Find(&orders).Error
	return orders, err
}
