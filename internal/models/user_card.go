package models

import "time"

// UserCard is a saved card fingerprint. Number and CVV are stored as one-way
// hashes, so saved cards are display-only; they cannot be replayed for
// payments.
type UserCard struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"userId"`
	CardNumber  string    `gorm:"not null" json:"-"`
	CVV         string    `gorm:"not null" json:"-"`
	CardHolder  string    `gorm:"type:varchar(100);not null" json:"cardHolder"`
	ExpiryMonth string    `gorm:"type:varchar(2);not null" json:"expiryMonth"`
	ExpiryYear  string    `gorm:"type:varchar(4);not null" json:"expiryYear"`
	CardType    string    `gorm:"type:varchar(20)" json:"cardType"`
	LastFour    string    `gorm:"type:varchar(4);not null" json:"lastFour"`
	IsDefault   bool      `gorm:"default:false" json:"isDefault"`
	IsActive    bool      `gorm:"default:true" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CardData is the card payload submitted with a card deposit.
type CardData struct {
	CardNumber string `json:"cardNumber"`
	CardHolder string `json:"cardHolder"`
	Expiry     string `json:"expiry"` // MM/YY
	CVV        string `json:"cvv"`
	Bank       string `json:"bank"`
}
