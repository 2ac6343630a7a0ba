package repository

import (
	"context"
	"time"

	"coffee-shop/internal/entity"

	"gorm.io/gorm"
)

// NotificationScope selects one queue: the staff queue, or one customer's.
type NotificationScope struct {
	Audience   entity.Audience
	CustomerID uint
}

func (r *Repository) scoped(ctx context.Context, s NotificationScope) *gorm.DB {
	q := r.conn(ctx).Model(&entity.Notification{}).Where("audience = ?", s.Audience)
	if s.Audience == entity.AudienceCustomer {
		q = q.Where("customer_id = ?", s.CustomerID)
	}
	return q
}

func (r *Repository) CreateNotification(ctx context.Context, n *entity.Notification) error {
	return r.conn(ctx).Create(n).Error
}

func (r *Repository) ListNotifications(ctx context.Context, s NotificationScope, limit int) ([]entity.Notification, error) {
	var out []entity.Notification
	err := r.scoped(ctx, s).Order("created_at DESC, id DESC").Limit(limit).Find(&out).Error
	return out, err
}

func (r *Repository) MarkNotificationRead(ctx context.Context, id uint, now time.Time) error {
	var n entity.Notification
	if err := r.conn(ctx).First(&n, id).Error; err != nil {
		return notFound(err, "notification %d not found", id)
	}
	if n.ReadAt != nil {
		return nil
	}
	return r.conn(ctx).Model(&n).Update("read_at", now).Error
}

func (r *Repository) MarkAllNotificationsRead(ctx context.Context, s NotificationScope, now time.Time) (int64, error) {
	res := r.scoped(ctx, s).Where("read_at IS NULL").Update("read_at", now)
	return res.RowsAffected, res.Error
}

func (r *Repository) ClearNotifications(ctx context.Context, s NotificationScope) (int64, error) {
	q := r.conn(ctx).Where("audience = ?", s.Audience)
	if s.Audience == entity.AudienceCustomer {
		q = q.Where("customer_id = ?", s.CustomerID)
	}
	res := q.Delete(&entity.Notification{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
