package repositories

import "paydesk/internal/models"

// BalanceRepository defines database operations for user balances.
// A balance row exists for every user from registration onward; a missing
// row is an internal consistency error, not a normal condition.
type BalanceRepository interface {
	Create(balance *models.Balance) error

	GetByUserID(userID uint) (*models.Balance, error)

	Update(balance *models.Balance) error

	// Credit atomically adds amount to the user's balance
	Credit(userID uint, amount float64) error

	// SumAll returns the total of all user balances (admin dashboard)
	SumAll() (float64, error)
}
