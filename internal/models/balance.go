package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

const DefaultCurrency = "AZN"

type Balance struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex;not null" json:"userId"`
	Amount      float64   `gorm:"type:decimal(10,2);not null;default:0" json:"amount"`
	Currency    string    `gorm:"type:varchar(3);not null;default:'AZN'" json:"currency"`
	LastUpdated time.Time `gorm:"not null" json:"lastUpdated"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (b *Balance) BeforeCreate(tx *gorm.DB) error {
	if b.Currency == "" {
		b.Currency = DefaultCurrency
	}
	if b.LastUpdated.IsZero() {
		b.LastUpdated = time.Now()
	}
	return nil
}

func (b *Balance) BeforeUpdate(tx *gorm.DB) error {
	b.LastUpdated = time.Now()
	return nil
}

// Formatted returns the balance as a display string, e.g. "12.50 ₼".
func (b *Balance) Formatted() string {
	return fmt.Sprintf("%.2f ₼", b.Amount)
}
