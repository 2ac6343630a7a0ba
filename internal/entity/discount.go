package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentageOff DiscountType = "PERCENTAGE_OFF"
	DiscountFixedAmount   DiscountType = "FIXED_AMOUNT"
	DiscountFreeItem      DiscountType = "FREE_ITEM"
)

func ParseDiscountType(s string) (DiscountType, bool) {
	switch v := DiscountType(strings.ToUpper(strings.TrimSpace(s))); v {
	case DiscountPercentageOff, DiscountFixedAmount, DiscountFreeItem:
		return v, true
	}
	return "", false
}

// Discount is an earned or issued reward. CustomerID is set for
// loyalty-earned rewards and nil for general discounts.
type Discount struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CustomerID  *uint           `gorm:"index" json:"customer_id,omitempty"`
	Type        DiscountType    `gorm:"type:varchar(20);not null" json:"type"`
	Value       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"value"`
	Description string          `gorm:"size:255" json:"description"`
	IsRedeemed  bool            `gorm:"not null;default:false" json:"is_redeemed"`
	UsedAt      *time.Time      `json:"used_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
