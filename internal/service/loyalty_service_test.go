package service

import (
	"context"
	"testing"

	"coffee-shop/internal/apperror"
	"coffee-shop/internal/entity"
	"coffee-shop/migrations"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tiers(stamps ...int) []entity.LoyaltyRewardTier {
	out := make([]entity.LoyaltyRewardTier, 0, len(stamps))
	for _, s := range stamps {
		out = append(out, entity.LoyaltyRewardTier{StampNumber: s})
	}
	return out
}

func stampsOf(ts []entity.LoyaltyRewardTier) []int {
	out := make([]int, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.StampNumber)
	}
	return out
}

func TestCrossedTiers(t *testing.T) {
	cases := []struct {
		name          string
		before, after int
		want          []int
	}{
		{"no tier reached", 0, 3, []int{}},
		{"exact hit", 4, 5, []int{5}},
		{"batch crosses two", 3, 10, []int{5, 10}},
		{"already past", 5, 6, []int{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stampsOf(CrossedTiers(tiers(10, 5), tc.before, tc.after)))
		})
	}
}

func TestAddStamp_TwoStampCardResets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewLoyaltyService(f.repo, "Two Stamps")
	_, err := svc.SaveProgram(ctx, ProgramInput{
		Tiers: []TierInput{{StampNumber: 2, RewardType: "FREE_ITEM", RewardDescription: "Free drink"}},
	})
	require.NoError(t, err)

	first, err := svc.AddStamp(ctx, f.customer.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, first.CurrentStamps)
	assert.Empty(t, first.Rewards)

	second, err := svc.AddStamp(ctx, f.customer.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, second.CurrentStamps)
	require.Len(t, second.Rewards, 1)
	assert.Equal(t, entity.DiscountFreeItem, second.Rewards[0].Type)
	assert.Equal(t, "Free drink", second.Rewards[0].Description)

	stamps, err := svc.GetStamps(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stamps)

	discounts, err := svc.ListCustomerDiscounts(ctx, f.customer.ID, false)
	require.NoError(t, err)
	require.Len(t, discounts, 1)
	require.NotNil(t, discounts[0].CustomerID)
	assert.Equal(t, f.customer.ID, *discounts[0].CustomerID)
}

func TestAddStamp_SeededProgramBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, migrations.SeedLoyaltyProgram(ctx, f.db, "Coffee Stamps"))
	svc := NewLoyaltyService(f.repo, "Coffee Stamps")

	res, err := svc.AddStamp(ctx, f.customer.ID, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, res.CurrentStamps)
	require.Len(t, res.Rewards, 1)
	assert.Equal(t, entity.DiscountPercentageOff, res.Rewards[0].Type)
	assert.Equal(t, "10.00", res.Rewards[0].Value.StringFixed(2))

	res, err = svc.AddStamp(ctx, f.customer.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, res.CurrentStamps)
	require.Len(t, res.Rewards, 1)
	assert.Equal(t, entity.DiscountFreeItem, res.Rewards[0].Type)
}

func TestAddStamp_Errors(t *testing.T) {
	f := newFixture(t)
	svc := NewLoyaltyService(f.repo, "Coffee Stamps")

	_, err := svc.AddStamp(context.Background(), f.customer.ID, 0)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = svc.AddStamp(context.Background(), 9999, 1)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestAddStamp_WithoutProgramStillCounts(t *testing.T) {
	f := newFixture(t)
	svc := NewLoyaltyService(f.repo, "Missing")

	res, err := svc.AddStamp(context.Background(), f.customer.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, res.CurrentStamps)
	assert.Empty(t, res.Rewards)
}

func TestSaveProgram_Validation(t *testing.T) {
	f := newFixture(t)
	svc := NewLoyaltyService(f.repo, "Coffee Stamps")
	ctx := context.Background()
	ten := decimal.NewFromInt(10)
	tooMuch := decimal.NewFromInt(150)

	cases := []struct {
		name  string
		tiers []TierInput
	}{
		{"non-positive stamp", []TierInput{{StampNumber: 0, RewardType: "FREE_ITEM"}}},
		{"duplicate stamp", []TierInput{{StampNumber: 3, RewardType: "FREE_ITEM"}, {StampNumber: 3, RewardType: "FREE_ITEM"}}},
		{"unknown type", []TierInput{{StampNumber: 3, RewardType: "BOGO"}}},
		{"missing amount", []TierInput{{StampNumber: 3, RewardType: "FIXED_AMOUNT"}}},
		{"percentage over 100", []TierInput{{StampNumber: 3, RewardType: "PERCENTAGE_OFF", DiscountAmount: &tooMuch}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SaveProgram(ctx, ProgramInput{Tiers: tc.tiers})
			assert.True(t, apperror.Is(err, apperror.KindValidation))
		})
	}

	program, err := svc.SaveProgram(ctx, ProgramInput{Tiers: []TierInput{
		{StampNumber: 8, RewardType: "FREE_ITEM"},
		{StampNumber: 4, RewardType: "FIXED_AMOUNT", DiscountAmount: &ten},
	}})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 8}, stampsOf(program.Tiers))

	stored, err := svc.GetProgram(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 8}, stampsOf(stored.Tiers))
}
