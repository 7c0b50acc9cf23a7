package repositories

import (
	"errors"
	"fmt"
	"time"

	"paydesk/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(tx *models.Transaction) error {
	if err := r.db.Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByTransactionID(transactionID string) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.Where("transaction_id = ?", transactionID).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) GetByTransactionIDForUser(transactionID string, userID uint) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.Preload("PaymentAccount", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "payment_type", "account_type")
	}).Where("transaction_id = ? AND user_id = ?", transactionID, userID).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) GetByTransactionIDForUpdate(transactionID string) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("transaction_id = ?", transactionID).
		First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to lock transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) Update(tx *models.Transaction) error {
	if err := r.db.Save(tx).Error; err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) CreditUserBalance(userID uint, amount float64) error {
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

func (r *transactionRepository) ListByUser(userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	var total int64
	err := r.db.Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var txs []models.Transaction
	err = r.db.Preload("PaymentAccount", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "payment_type", "account_type")
	}).Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, total, nil
}

func (r *transactionRepository) ListAll(filters models.TransactionFilters, limit, offset int) ([]models.Transaction, int64, error) {
	query := r.db.Model(&models.Transaction{})

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.PaymentAccountID != 0 {
		query = query.Where("payment_account_id = ?", filters.PaymentAccountID)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var txs []models.Transaction
	err := query.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "username", "email", "first_name", "last_name")
	}).Preload("PaymentAccount", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "payment_type", "account_type")
	}).Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, total, nil
}

func (r *transactionRepository) ListPending() ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "username", "email", "first_name", "last_name")
	}).Preload("PaymentAccount", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "account_type", "payment_type", "account_identifier")
	}).Where("status = ?", models.StatusPending).
		Order("created_at ASC").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending transactions: %w", err)
	}
	return txs, nil
}

func (r *transactionRepository) Stats() (*models.TransactionStats, error) {
	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)

	stats := &models.TransactionStats{}
	model := func() *gorm.DB { return r.db.Model(&models.Transaction{}) }

	if err := model().Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	if err := model().Where("status = ?", models.StatusPending).Count(&stats.Pending).Error; err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	if err := model().Where("status = ?", models.StatusCompleted).Count(&stats.Completed).Error; err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	if err := model().Where("created_at >= ?", weekAgo).Count(&stats.Weekly).Error; err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	if err := model().Where("created_at >= ?", monthAgo).Count(&stats.Monthly).Error; err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}

func (r *transactionRepository) ExecuteInTransaction(fn func(TransactionRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&transactionRepository{db: tx})
	})
}
