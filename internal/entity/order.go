package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentStatus string
type PaymentType string

const (
	OrderStatusPending       OrderStatus = "PENDING"
	OrderStatusPreparing     OrderStatus = "PREPARING"
	OrderStatusReadyToPickup OrderStatus = "READYTOPICKUP"
	OrderStatusCompleted     OrderStatus = "COMPLETED"
	OrderStatusCancelled     OrderStatus = "CANCELLED"

	PaymentStatusUnpaid   PaymentStatus = "UNPAID"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"

	PaymentTypeCash    PaymentType = "CASH"
	PaymentTypeCard    PaymentType = "CARD"
	PaymentTypeEWallet PaymentType = "EWALLET"
)

// ParseOrderStatus maps a case-insensitive name to an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch v := OrderStatus(strings.ToUpper(strings.TrimSpace(s))); v {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReadyToPickup, OrderStatusCompleted, OrderStatusCancelled:
		return v, true
	}
	return "", false
}

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch v := PaymentStatus(strings.ToUpper(strings.TrimSpace(s))); v {
	case PaymentStatusUnpaid, PaymentStatusPaid, PaymentStatusRefunded:
		return v, true
	}
	return "", false
}

func ParsePaymentType(s string) (PaymentType, bool) {
	switch v := PaymentType(strings.ToUpper(strings.TrimSpace(s))); v {
	case PaymentTypeCash, PaymentTypeCard, PaymentTypeEWallet:
		return v, true
	}
	return "", false
}

type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	CustomerID      uint            `gorm:"index;not null" json:"customer_id"`
	OrderDay        string          `gorm:"size:10;not null;uniqueIndex:idx_orders_day_number,priority:1" json:"order_day"`
	OrderNumber     string          `gorm:"size:20;not null;uniqueIndex:idx_orders_day_number,priority:2" json:"order_number"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	DiscountApplied decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount_applied"`
	DiscountID      *uint           `json:"discount_id,omitempty"`
	PickupTime      *time.Time      `json:"pickup_time,omitempty"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);not null;default:'UNPAID'" json:"payment_status"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	IsDeleted       bool            `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt       *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	OrderID         uint             `gorm:"index;not null" json:"order_id"`
	VariantID       uint             `gorm:"not null" json:"variant_id"`
	Quantity        int              `gorm:"not null" json:"quantity"`
	PriceAtPurchase decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"price_at_purchase"`
	Addons          []OrderItemAddon `gorm:"foreignKey:OrderItemID" json:"addons"`
}

type OrderItemAddon struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderItemID     uint            `gorm:"index;not null" json:"order_item_id"`
	AddonID         uint            `gorm:"not null" json:"addon_id"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_at_purchase"`
}

type PaymentMethod struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index;not null" json:"order_id"`
	Method    PaymentType     `gorm:"type:varchar(20);not null" json:"method"`
	Reference string          `gorm:"size:64" json:"reference"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	IsDeleted bool            `gorm:"not null;default:false" json:"is_deleted"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// DailyOrderSequence backs the per-day order numbers.
type DailyOrderSequence struct {
	Day       string `gorm:"primaryKey;size:10"`
	LastValue int    `gorm:"not null"`
}
