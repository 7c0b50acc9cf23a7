package models

import (
	"encoding/json"
	"time"
)

// Account types determine the shape of AccountDetails.
const (
	AccountTypeCard   = "card"
	AccountTypeMobile = "mobile"
	AccountTypeBank   = "bank"
)

// PaymentAccount is an admin-configured receiving endpoint users pay into.
type PaymentAccount struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	AccountType       string    `gorm:"not null" json:"accountType"`
	PaymentType       string    `gorm:"type:varchar(50);not null" json:"paymentType"`
	MinAmount         float64   `gorm:"type:decimal(10,2);default:1" json:"minAmount"`
	MaxAmount         float64   `gorm:"type:decimal(10,2);default:10000" json:"maxAmount"`
	Commission        float64   `gorm:"type:decimal(5,2);default:0" json:"commission"`
	AccountIdentifier string    `json:"accountIdentifier"`
	AccountDetails    JSON      `gorm:"type:jsonb;not null" json:"accountDetails"`
	IsActive          bool      `gorm:"default:true" json:"isActive"`
	Priority          int       `gorm:"default:1" json:"priority"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	Transactions []Transaction `json:"-"`
}

// CardAccountDetails is the AccountDetails variant for card accounts.
type CardAccountDetails struct {
	CardNumber string `json:"cardNumber"`
	CardHolder string `json:"cardHolder"`
	Bank       string `json:"bank"`
}

// MobileAccountDetails is the AccountDetails variant for mobile wallet accounts.
type MobileAccountDetails struct {
	PhoneNumber string `json:"phoneNumber"`
	Operator    string `json:"operator"`
}

// CardDetails decodes AccountDetails as a card variant.
func (a *PaymentAccount) CardDetails() (CardAccountDetails, error) {
	var d CardAccountDetails
	raw, err := json.Marshal(a.AccountDetails)
	if err != nil {
		return d, err
	}
	err = json.Unmarshal(raw, &d)
	return d, err
}

// MobileDetails decodes AccountDetails as a mobile variant.
func (a *PaymentAccount) MobileDetails() (MobileAccountDetails, error) {
	var d MobileAccountDetails
	raw, err := json.Marshal(a.AccountDetails)
	if err != nil {
		return d, err
	}
	err = json.Unmarshal(raw, &d)
	return d, err
}

// CreatePaymentAccountInput is the admin create payload.
type CreatePaymentAccountInput struct {
	PaymentType       string  `json:"paymentType"`
	AccountType       string  `json:"accountType"`
	AccountDetails    JSON    `json:"accountDetails"`
	AccountIdentifier string  `json:"accountIdentifier"`
	Priority          int     `json:"priority"`
	MinAmount         float64 `json:"minAmount"`
	MaxAmount         float64 `json:"maxAmount"`
	Commission        float64 `json:"commission"`
}

// UpdatePaymentAccountInput carries partial admin edits; nil fields keep prior values.
type UpdatePaymentAccountInput struct {
	PaymentType       *string  `json:"paymentType"`
	AccountType       *string  `json:"accountType"`
	AccountDetails    JSON     `json:"accountDetails"`
	AccountIdentifier *string  `json:"accountIdentifier"`
	Priority          *int     `json:"priority"`
	MinAmount         *float64 `json:"minAmount"`
	MaxAmount         *float64 `json:"maxAmount"`
	Commission        *float64 `json:"commission"`
	IsActive          *bool    `json:"isActive"`
}
