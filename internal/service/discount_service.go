package service

import (
	"context"

	"coffee-shop/internal/apperror"
	"coffee-shop/internal/entity"
	"coffee-shop/internal/repository"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type DiscountService struct {
	repo *repository.Repository
}

func NewDiscountService(repo *repository.Repository) *DiscountService {
	return &DiscountService{repo: repo}
}

type DiscountInput struct {
	CustomerID  *uint           `json:"customer_id"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
}

func validateDiscountValue(t entity.DiscountType, v decimal.Decimal) error {
	if v.IsNegative() {
		return apperror.NewValidation("discount value cannot be negative")
	}
	if t == entity.DiscountPercentageOff && v.GreaterThan(hundred) {
		return apperror.NewValidation("percentage must be between 0 and 100")
	}
	return nil
}

// CreateDiscount issues a discount, optionally bound to one customer.
func (s *DiscountService) CreateDiscount(ctx context.Context, in DiscountInput) (*entity.Discount, error) {
	discountType, ok := entity.ParseDiscountType(in.Type)
	if !ok {
		return nil, apperror.NewValidation("invalid discount type %q", in.Type)
	}
	if err := validateDiscountValue(discountType, in.Value); err != nil {
		return nil, err
	}
	if in.CustomerID != nil {
		if _, err := s.repo.GetCustomer(ctx, *in.CustomerID); err != nil {
			return nil, err
		}
	}
	d := &entity.Discount{
		CustomerID:  in.CustomerID,
		Type:        discountType,
		Value:       in.Value,
		Description: in.Description,
	}
	if err := s.repo.CreateDiscount(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DiscountService) GetDiscount(ctx context.Context, id uint) (*entity.Discount, error) {
	return s.repo.GetDiscount(ctx, id)
}

// ListDiscounts lists general discounts, or one customer's when customerID
// is set.
func (s *DiscountService) ListDiscounts(ctx context.Context, customerID *uint, includeRedeemed bool) ([]entity.Discount, error) {
	return s.repo.ListDiscounts(ctx, customerID, includeRedeemed)
}
