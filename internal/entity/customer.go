package entity

import "time"

type Customer struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:120;not null" json:"name"`
	Email         string    `gorm:"size:190;uniqueIndex;not null" json:"email"`
	CurrentStamps int       `gorm:"not null;default:0" json:"current_stamps"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
