package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:120;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `gorm:"size:60;index" json:"category"`
	ImageURL    string     `gorm:"size:255" json:"image_url"`
	Variants    []Variant  `gorm:"foreignKey:ProductID" json:"variants"`
	IsDeleted   bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Variant is a purchasable SKU of a product: serving type, size and price.
type Variant struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ProductID   uint            `gorm:"index;not null" json:"product_id"`
	ServingType string          `gorm:"size:40" json:"serving_type"` // e.g. "HOT", "ICED"
	Size        string          `gorm:"size:20" json:"size"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

// Addon is an optional paid extra for a line item.
type Addon struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:80;not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	IsAvailable bool            `gorm:"not null;default:true" json:"is_available"`
}

type Stock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VariantID uint      `gorm:"uniqueIndex;not null" json:"variant_id"`
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"index;not null" json:"customer_id"`
	ProductID  uint      `gorm:"index;not null" json:"product_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}
