package repositories

import (
	"errors"

	"paydesk/internal/models"
)

var ErrCardNotFound = errors.New("card not found")

// UserCardRepository defines database operations for saved card fingerprints.
type UserCardRepository interface {
	Create(card *models.UserCard) error

	// FindExisting looks up a card by its dedup key (user, last four, holder)
	FindExisting(userID uint, lastFour, cardHolder string) (*models.UserCard, error)

	ListByUser(userID uint) ([]models.UserCard, error)
}
