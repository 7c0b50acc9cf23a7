package repositories

import (
	"errors"
	"fmt"

	"paydesk/internal/models"

	"gorm.io/gorm"
)

type userCardRepository struct {
	db *gorm.DB
}

func NewUserCardRepository(db *gorm.DB) UserCardRepository {
	return &userCardRepository{db: db}
}

func (r *userCardRepository) Create(card *models.UserCard) error {
	if err := r.db.Create(card).Error; err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

func (r *userCardRepository) FindExisting(userID uint, lastFour, cardHolder string) (*models.UserCard, error) {
	var card models.UserCard
	err := r.db.Where("user_id = ? AND last_four = ? AND card_holder = ?", userID, lastFour, cardHolder).
		First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to find card: %w", err)
	}
	return &card, nil
}

func (r *userCardRepository) ListByUser(userID uint) ([]models.UserCard, error) {
	var cards []models.UserCard
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}
