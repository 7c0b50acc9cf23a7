package repositories

import (
	"errors"

	"paydesk/internal/models"
)

var ErrPaymentAccountNotFound = errors.New("payment account not found")

// PaymentAccountRepository defines database operations for receiving accounts.
// Accounts are never deleted; deactivation retires them so historical
// transactions keep a valid reference.
type PaymentAccountRepository interface {
	Create(account *models.PaymentAccount) error

	// GetByID retrieves an account regardless of active state (admin use)
	GetByID(id uint) (*models.PaymentAccount, error)

	// GetActiveByID retrieves an account only if it is active
	GetActiveByID(id uint) (*models.PaymentAccount, error)

	// ListActive returns active accounts ordered by priority asc, id asc
	ListActive() ([]models.PaymentAccount, error)

	// List returns all accounts ordered by priority asc, created_at desc
	List() ([]models.PaymentAccount, error)

	// FindActiveByType returns the highest-priority active account for a
	// payment type; ties break on lowest id so selection is deterministic
	FindActiveByType(paymentType string) (*models.PaymentAccount, error)

	Update(account *models.PaymentAccount) error

	// CountActive returns the number of active accounts
	CountActive() (int64, error)
}
