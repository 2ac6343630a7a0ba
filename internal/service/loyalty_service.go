package service

import (
	"context"
	"sort"
	"strings"

	"coffee-shop/internal/apperror"
	"coffee-shop/internal/entity"
	"coffee-shop/internal/repository"

	"github.com/shopspring/decimal"
)

// LoyaltyService runs the stamp card: counting stamps and turning crossed
// tiers into customer discounts.
type LoyaltyService struct {
	repo        *repository.Repository
	programName string
}

func NewLoyaltyService(repo *repository.Repository, programName string) *LoyaltyService {
	return &LoyaltyService{repo: repo, programName: programName}
}

// StampResult is what the customer sees after a stamp: the counter after
// any reset and the rewards just earned.
type StampResult struct {
	CurrentStamps int               `json:"current_stamps"`
	Rewards       []entity.Discount `json:"rewards"`
}

type TierInput struct {
	StampNumber       int              `json:"stamp_number"`
	RewardType        string           `json:"reward_type"`
	RewardDescription string           `json:"reward_description"`
	DiscountAmount    *decimal.Decimal `json:"discount_amount"`
}

type ProgramInput struct {
	Name     string      `json:"name"`
	IsActive *bool       `json:"is_active"`
	Tiers    []TierInput `json:"tiers"`
}

// CrossedTiers returns the tiers whose stamp number lies in (before, after].
func CrossedTiers(tiers []entity.LoyaltyRewardTier, before, after int) []entity.LoyaltyRewardTier {
	var out []entity.LoyaltyRewardTier
	for _, t := range tiers {
		if t.StampNumber > before && t.StampNumber <= after {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StampNumber < out[j].StampNumber })
	return out
}

func maxStamp(tiers []entity.LoyaltyRewardTier) int {
	m := 0
	for _, t := range tiers {
		if t.StampNumber > m {
			m = t.StampNumber
		}
	}
	return m
}

// AddStamp adds n stamps and issues a discount for every tier crossed.
// Reaching the top tier resets the card. All of it commits together.
func (s *LoyaltyService) AddStamp(ctx context.Context, customerID uint, n int) (*StampResult, error) {
	if n < 1 {
		return nil, apperror.NewValidation("stamps to add must be at least 1")
	}

	result := &StampResult{Rewards: []entity.Discount{}}
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		before, after, err := tx.IncrementStamps(ctx, customerID, n)
		if err != nil {
			return err
		}
		result.CurrentStamps = after

		program, err := tx.GetProgramByName(ctx, s.programName)
		if apperror.Is(err, apperror.KindNotFound) {
			logger.Warn().Msgf("Loyalty program %q not found, stamps counted without rewards", s.programName)
			return nil
		}
		if err != nil {
			return err
		}

		for _, tier := range CrossedTiers(program.Tiers, before, after) {
			owner := customerID
			discount := entity.Discount{
				CustomerID:  &owner,
				Type:        tier.RewardType,
				Value:       tier.DiscountAmount.Decimal,
				Description: tier.RewardDescription,
			}
			if err := tx.CreateDiscount(ctx, &discount); err != nil {
				return err
			}
			result.Rewards = append(result.Rewards, discount)
		}

		if top := maxStamp(program.Tiers); top > 0 && after >= top {
			if err := tx.ResetStamps(ctx, customerID); err != nil {
				return err
			}
			result.CurrentStamps = 0
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msgf("Error adding stamps for customer %d", customerID)
		return nil, err
	}
	return result, nil
}

func (s *LoyaltyService) GetStamps(ctx context.Context, customerID uint) (int, error) {
	customer, err := s.repo.GetCustomer(ctx, customerID)
	if err != nil {
		return 0, err
	}
	return customer.CurrentStamps, nil
}

func (s *LoyaltyService) GetProgram(ctx context.Context) (*entity.LoyaltyProgram, error) {
	return s.repo.GetProgramByName(ctx, s.programName)
}

// SaveProgram replaces the configured program's tiers. The name in the
// input defaults to the configured program name.
func (s *LoyaltyService) SaveProgram(ctx context.Context, in ProgramInput) (*entity.LoyaltyProgram, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = s.programName
	}
	program := &entity.LoyaltyProgram{Name: name, IsActive: true}
	if in.IsActive != nil {
		program.IsActive = *in.IsActive
	}

	seen := make(map[int]bool, len(in.Tiers))
	for _, t := range in.Tiers {
		if t.StampNumber < 1 {
			return nil, apperror.NewValidation("stamp_number must be positive")
		}
		if seen[t.StampNumber] {
			return nil, apperror.NewValidation("duplicate stamp_number %d", t.StampNumber)
		}
		seen[t.StampNumber] = true

		rewardType, ok := entity.ParseDiscountType(t.RewardType)
		if !ok {
			return nil, apperror.NewValidation("invalid reward_type %q", t.RewardType)
		}
		tier := entity.LoyaltyRewardTier{
			StampNumber:       t.StampNumber,
			RewardType:        rewardType,
			RewardDescription: t.RewardDescription,
		}
		if t.DiscountAmount != nil {
			if err := validateDiscountValue(rewardType, *t.DiscountAmount); err != nil {
				return nil, err
			}
			tier.DiscountAmount = decimal.NewNullDecimal(*t.DiscountAmount)
		} else if rewardType != entity.DiscountFreeItem {
			return nil, apperror.NewValidation("discount_amount is required for %s", rewardType)
		}
		program.Tiers = append(program.Tiers, tier)
	}

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		return tx.SaveProgram(ctx, program)
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(program.Tiers, func(i, j int) bool { return program.Tiers[i].StampNumber < program.Tiers[j].StampNumber })
	return program, nil
}

func (s *LoyaltyService) ListCustomerDiscounts(ctx context.Context, customerID uint, includeRedeemed bool) ([]entity.Discount, error) {
	if _, err := s.repo.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.ListDiscounts(ctx, &customerID, includeRedeemed)
}
