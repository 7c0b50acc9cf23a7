package repositories

import (
	"errors"
	"fmt"
	"time"

	"paydesk/internal/models"

	"gorm.io/gorm"
)

type balanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) BalanceRepository {
	return &balanceRepository{db: db}
}

func (r *balanceRepository) Create(balance *models.Balance) error {
	if err := r.db.Create(balance).Error; err != nil {
		return fmt.Errorf("failed to create balance: %w", err)
	}
	return nil
}

func (r *balanceRepository) GetByUserID(userID uint) (*models.Balance, error) {
	var balance models.Balance
	if err := r.db.Where("user_id = ?", userID).First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBalanceNotFound
		}
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return &balance, nil
}

func (r *balanceRepository) Update(balance *models.Balance) error {
	if err := r.db.Save(balance).Error; err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return nil
}

func (r *balanceRepository) Credit(userID uint, amount float64) error {
	result := r.db.Model(&models.Balance{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"amount":       gorm.Expr("amount + ?", amount),
			"last_updated": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to credit balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBalanceNotFound
	}
	return nil
}

func (r *balanceRepository) SumAll() (float64, error) {
	var total float64
	err := r.db.Model(&models.Balance{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum balances: %w", err)
	}
	return total, nil
}
