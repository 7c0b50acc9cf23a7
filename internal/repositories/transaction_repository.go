package repositories

import (
	"errors"

	"paydesk/internal/models"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBalanceNotFound     = errors.New("balance not found")
)

// TransactionRepository defines database operations for deposit transactions.
//
// The completion transition must check the prior status, credit the balance
// and write the new status as one atomic unit. ExecuteInTransaction runs the
// callback inside a database transaction against a repository bound to it;
// GetByTransactionIDForUpdate takes a row lock valid for the remainder of
// that transaction.
type TransactionRepository interface {
	Create(tx *models.Transaction) error

	GetByTransactionID(transactionID string) (*models.Transaction, error)

	// GetByTransactionIDForUser resolves a transaction only if owned by userID,
	// with the related payment account attached
	GetByTransactionIDForUser(transactionID string, userID uint) (*models.Transaction, error)

	// GetByTransactionIDForUpdate locks the transaction row. Only meaningful
	// inside ExecuteInTransaction.
	GetByTransactionIDForUpdate(transactionID string) (*models.Transaction, error)

	Update(tx *models.Transaction) error

	// CreditUserBalance atomically adds amount to the user's balance row.
	CreditUserBalance(userID uint, amount float64) error

	// ListByUser returns the user's transactions newest first with the related
	// account's type attached, plus the total count
	ListByUser(userID uint, limit, offset int) ([]models.Transaction, int64, error)

	// ListAll returns filtered transactions newest first with related user and
	// account attached, plus the total count
	ListAll(filters models.TransactionFilters, limit, offset int) ([]models.Transaction, int64, error)

	// ListPending returns all pending transactions oldest first for the admin
	// review queue
	ListPending() ([]models.Transaction, error)

	// Stats computes live aggregate counts
	Stats() (*models.TransactionStats, error)

	// ExecuteInTransaction runs fn inside a database transaction
	ExecuteInTransaction(fn func(TransactionRepository) error) error
}
