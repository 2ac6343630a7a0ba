package entity

import (
	"strings"
	"time"
)

// Audience tells customer-facing notifications from the barista queue.
type Audience string

const (
	AudienceCustomer Audience = "CUSTOMER"
	AudienceStaff    Audience = "STAFF"
)

func ParseAudience(s string) (Audience, bool) {
	switch v := Audience(strings.ToUpper(strings.TrimSpace(s))); v {
	case AudienceCustomer, AudienceStaff:
		return v, true
	}
	return "", false
}

type Notification struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Audience   Audience   `gorm:"type:varchar(10);not null;index:idx_audience_created" json:"audience"`
	CustomerID *uint      `gorm:"index" json:"customer_id,omitempty"`
	Message    string     `gorm:"size:500;not null" json:"message"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `gorm:"index:idx_audience_created" json:"created_at"`
}
