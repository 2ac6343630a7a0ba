package entity

import "github.com/shopspring/decimal"

type LoyaltyProgram struct {
	ID       uint                `gorm:"primaryKey" json:"id"`
	Name     string              `gorm:"size:120;uniqueIndex;not null" json:"name"`
	IsActive bool                `gorm:"not null;default:true" json:"is_active"`
	Tiers    []LoyaltyRewardTier `gorm:"foreignKey:ProgramID" json:"tiers"`
}

type LoyaltyRewardTier struct {
	ID                uint                `gorm:"primaryKey" json:"id"`
	ProgramID         uint                `gorm:"not null;uniqueIndex:idx_program_stamp" json:"program_id"`
	StampNumber       int                 `gorm:"not null;uniqueIndex:idx_program_stamp" json:"stamp_number"`
	RewardType        DiscountType        `gorm:"type:varchar(20);not null" json:"reward_type"`
	RewardDescription string              `gorm:"size:255" json:"reward_description"`
	DiscountAmount    decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"discount_amount"`
}
