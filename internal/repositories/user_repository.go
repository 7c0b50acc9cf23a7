package repositories

import (
	"errors"

	"paydesk/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// CreateWithBalance creates a user and their initial balance atomically.
	CreateWithBalance(user *models.User, balance *models.Balance) error

	// GetByID retrieves a user by their ID
	GetByID(id uint) (*models.User, error)

	// GetByIDWithBalance retrieves a user and preloads their balance
	GetByIDWithBalance(id uint) (*models.User, error)

	// GetByUsernameOrEmail retrieves a user matching either identifier
	GetByUsernameOrEmail(identifier string) (*models.User, error)

	// Update updates an existing user's information
	Update(user *models.User) error

	// Delete removes a user; balances, transactions and cards cascade
	Delete(id uint) error

	// List retrieves users with pagination
	List(offset, limit int) ([]models.User, int64, error)

	// UsernameExists reports whether another user holds the username
	UsernameExists(username string, excludeID uint) (bool, error)

	// EmailExists reports whether another user holds the email
	EmailExists(email string, excludeID uint) (bool, error)
}
