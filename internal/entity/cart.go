package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartStatus string

const (
	CartStatusActive     CartStatus = "ACTIVE"
	CartStatusCheckedOut CartStatus = "CHECKED_OUT"
	CartStatusAbandoned  CartStatus = "ABANDONED"
)

type Cart struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CustomerID uint       `gorm:"index;not null" json:"customer_id"`
	Status     CartStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	// ActiveOwner mirrors CustomerID while the cart is ACTIVE and is NULL
	// otherwise, so the unique index allows one ACTIVE cart per customer.
	ActiveOwner *uint      `gorm:"uniqueIndex" json:"-"`
	Items       []CartItem `gorm:"foreignKey:CartID" json:"items"`
	IsDeleted   bool       `gorm:"not null;default:false" json:"is_deleted"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CartID    uint            `gorm:"index;not null" json:"cart_id"`
	VariantID uint            `gorm:"not null" json:"variant_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	// Price is the line snapshot: unit price × quantity plus addon totals.
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Addons    []CartItemAddon `gorm:"foreignKey:CartItemID" json:"addons"`
	IsDeleted bool            `gorm:"not null;default:false" json:"is_deleted"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CartItemAddon struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CartItemID uint            `gorm:"index;not null" json:"cart_item_id"`
	AddonID    uint            `gorm:"not null" json:"addon_id"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}
