package service

import (
	"context"
	"time"

	"coffee-shop/internal/apperror"
	"coffee-shop/internal/entity"
	"coffee-shop/internal/repository"
)

// NotificationLimit caps how many notifications a listing returns.
const NotificationLimit = 30

type NotificationService struct {
	repo        *repository.Repository
	broadcaster Broadcaster
	now         func() time.Time
}

func NewNotificationService(repo *repository.Repository, broadcaster Broadcaster) *NotificationService {
	return &NotificationService{repo: repo, broadcaster: broadcaster, now: time.Now}
}

func scopeFor(audience string, customerID uint) (repository.NotificationScope, error) {
	a, ok := entity.ParseAudience(audience)
	if !ok {
		return repository.NotificationScope{}, apperror.NewValidation("invalid audience %q", audience)
	}
	if a == entity.AudienceCustomer && customerID == 0 {
		return repository.NotificationScope{}, apperror.NewValidation("customer_id is required for customer notifications")
	}
	return repository.NotificationScope{Audience: a, CustomerID: customerID}, nil
}

// Notify stores a notification. Staff notifications are also pushed to the
// barista screens.
func (s *NotificationService) Notify(ctx context.Context, audience string, customerID uint, message string) (*entity.Notification, error) {
	scope, err := scopeFor(audience, customerID)
	if err != nil {
		return nil, err
	}
	if message == "" {
		return nil, apperror.NewValidation("message is required")
	}
	n := &entity.Notification{Audience: scope.Audience, Message: message}
	if scope.Audience == entity.AudienceCustomer {
		n.CustomerID = &customerID
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	if s.broadcaster != nil && n.Audience == entity.AudienceStaff {
		s.broadcaster.Broadcast("notification", n)
	}
	return n, nil
}

// List returns the newest notifications of one queue, newest first.
func (s *NotificationService) List(ctx context.Context, audience string, customerID uint) ([]entity.Notification, error) {
	scope, err := scopeFor(audience, customerID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListNotifications(ctx, scope, NotificationLimit)
}

func (s *NotificationService) MarkRead(ctx context.Context, id uint) error {
	return s.repo.MarkNotificationRead(ctx, id, s.now())
}

func (s *NotificationService) ReadAll(ctx context.Context, audience string, customerID uint) (int64, error) {
	scope, err := scopeFor(audience, customerID)
	if err != nil {
		return 0, err
	}
	return s.repo.MarkAllNotificationsRead(ctx, scope, s.now())
}

func (s *NotificationService) Clear(ctx context.Context, audience string, customerID uint) (int64, error) {
	scope, err := scopeFor(audience, customerID)
	if err != nil {
		return 0, err
	}
	return s.repo.ClearNotifications(ctx, scope)
}
