package repositories

import (
	"errors"
	"fmt"

	"paydesk/internal/models"

	"gorm.io/gorm"
)

type paymentAccountRepository struct {
	db *gorm.DB
}

func NewPaymentAccountRepository(db *gorm.DB) PaymentAccountRepository {
	return &paymentAccountRepository{db: db}
}

func (r *paymentAccountRepository) Create(account *models.PaymentAccount) error {
	if err := r.db.Create(account).Error; err != nil {
		return fmt.Errorf("failed to create payment account: %w", err)
	}
	return nil
}

func (r *paymentAccountRepository) GetByID(id uint) (*models.PaymentAccount, error) {
	var account models.PaymentAccount
	if err := r.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentAccountNotFound
		}
		return nil, fmt.Errorf("failed to get payment account: %w", err)
	}
	return &account, nil
}

func (r *paymentAccountRepository) GetActiveByID(id uint) (*models.PaymentAccount, error) {
	var account models.PaymentAccount
	err := r.db.Where("id = ? AND is_active = ?", id, true).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentAccountNotFound
		}
		return nil, fmt.Errorf("failed to get payment account: %w", err)
	}
	return &account, nil
}

func (r *paymentAccountRepository) ListActive() ([]models.PaymentAccount, error) {
	var accounts []models.PaymentAccount
	err := r.db.Where("is_active = ?", true).
		Order("priority ASC, id ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payment accounts: %w", err)
	}
	return accounts, nil
}

func (r *paymentAccountRepository) List() ([]models.PaymentAccount, error) {
	var accounts []models.PaymentAccount
	err := r.db.Order("priority ASC, created_at DESC").Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payment accounts: %w", err)
	}
	return accounts, nil
}

func (r *paymentAccountRepository) FindActiveByType(paymentType string) (*models.PaymentAccount, error) {
	var account models.PaymentAccount
	err := r.db.Where("payment_type = ? AND is_active = ?", paymentType, true).
		Order("priority ASC, id ASC").
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentAccountNotFound
		}
		return nil, fmt.Errorf("failed to find payment account: %w", err)
	}
	return &account, nil
}

func (r *paymentAccountRepository) Update(account *models.PaymentAccount) error {
	if err := r.db.Save(account).Error; err != nil {
		return fmt.Errorf("failed to update payment account: %w", err)
	}
	return nil
}

func (r *paymentAccountRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&models.PaymentAccount{}).Where("is_active = ?", true).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count payment accounts: %w", err)
	}
	return count, nil
}
