package models

import (
	"time"
)

// Transaction statuses
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
)

// ValidStatus reports whether s is one of the recognized transaction statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Transaction records one deposit attempt and its lifecycle. The balance is
// credited by Amount (not TotalAmount) when the transaction completes; the
// commission is retained by the operator.
type Transaction struct {
	ID               uint    `gorm:"primarykey" json:"id"`
	TransactionID    string  `gorm:"uniqueIndex;not null" json:"transactionId"`
	UserID           uint    `gorm:"not null;index" json:"userId"`
	PaymentAccountID uint    `gorm:"not null;index" json:"paymentAccountId"`
	Amount           float64 `gorm:"type:decimal(10,2);not null" json:"amount"`
	Commission       float64 `gorm:"type:decimal(10,2);default:0" json:"commission"`
	TotalAmount      float64 `gorm:"type:decimal(10,2);not null" json:"totalAmount"`
	Status           string  `gorm:"not null;default:'pending'" json:"status"`
	// PaymentDetails is a snapshot of the account's routing info captured at
	// creation time; later edits to the PaymentAccount must not alter it.
	PaymentDetails JSON       `gorm:"type:jsonb" json:"paymentDetails"`
	ExpiresAt      *time.Time `json:"expiresAt"`
	AdminNotes     string     `gorm:"type:text" json:"adminNotes"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	User           *User           `json:"user,omitempty"`
	PaymentAccount *PaymentAccount `json:"paymentAccount,omitempty"`
}

// TransactionFilters narrows admin transaction listings.
type TransactionFilters struct {
	Status           string
	PaymentAccountID uint
	DateFrom         *time.Time
	DateTo           *time.Time
}

// TransactionStats holds live aggregate counts.
type TransactionStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
	Weekly    int64 `json:"weekly"`
	Monthly   int64 `json:"monthly"`
}
