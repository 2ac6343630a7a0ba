package service

import (
	"context"

	"coffee-shop/internal/apperror"
	"coffee-shop/internal/entity"
	"coffee-shop/internal/repository"
)

type InventoryService struct {
	repo *repository.Repository
}

func NewInventoryService(repo *repository.Repository) *InventoryService {
	return &InventoryService{repo: repo}
}

func (s *InventoryService) ListStock(ctx context.Context) ([]entity.Stock, error) {
	return s.repo.ListStock(ctx)
}

func (s *InventoryService) GetStock(ctx context.Context, variantID uint) (*entity.Stock, error) {
	return s.repo.GetStock(ctx, variantID)
}

func (s *InventoryService) SetStock(ctx context.Context, variantID uint, quantity int) (*entity.Stock, error) {
	if quantity < 0 {
		return nil, apperror.NewValidation("quantity cannot be negative")
	}
	if _, err := s.repo.GetVariant(ctx, variantID); err != nil {
		return nil, err
	}
	return s.repo.SetStock(ctx, variantID, quantity)
}

// ApplyOrderEvent reserves stock for a created order and gives it back
// for a cancelled one. Other event kinds are ignored.
func (s *InventoryService) ApplyOrderEvent(ctx context.Context, event entity.OrderEvent) error {
	var sign int
	switch event.Type {
	case OrderEventCreated:
		sign = -1
	case OrderEventCancelled:
		sign = 1
	default:
		return nil
	}

	return s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		for _, item := range event.Order.Items {
			if err := tx.AdjustStock(ctx, item.VariantID, sign*item.Quantity); err != nil {
				logger.Error().Err(err).Msgf("Error adjusting stock for variant %d", item.VariantID)
				return err
			}
		}
		logger.Info().Msgf("Applied %s event for order %s to stock", event.Type, event.Order.OrderNumber)
		return nil
	})
}
