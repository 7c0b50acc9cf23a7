// Package transaction drives the deposit lifecycle:
//
//	pending -> processing -> completed | failed | cancelled
//
// Direct transitions from pending to a terminal state are allowed; the
// machine does not force a pass through processing. The balance credit fires
// exactly once per transaction lifetime, on the transition into completed.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"log"

	"paydesk/internal/models"
	"paydesk/internal/repositories"
)

// BalanceCache invalidates cached balances after a credit.
type BalanceCache interface {
	InvalidateBalance(ctx context.Context, userID uint) error
}

type Service interface {
	// SetStatus transitions a transaction. When the new status is completed
	// and the prior status was not, the owner's balance is credited by the
	// transaction's amount (the commission stays with the operator). The
	// status check, credit and status write happen atomically under a row
	// lock, so retried or concurrent approvals credit at most once.
	SetStatus(ctx context.Context, transactionID, status, adminNotes string) (*models.Transaction, error)

	// Approve completes a transaction and credits the balance.
	Approve(ctx context.Context, transactionID, adminNotes string) (*models.Transaction, error)

	// Reject marks a transaction failed; the balance is untouched.
	Reject(ctx context.Context, transactionID, adminNotes string) (*models.Transaction, error)

	// GetForUser resolves a transaction only if owned by userID.
	GetForUser(transactionID string, userID uint) (*models.Transaction, error)

	// ListForUser pages the user's own transactions, newest first.
	ListForUser(userID uint, limit, offset int) ([]models.Transaction, int64, error)

	// ListAll pages all transactions with admin filters, newest first.
	ListAll(filters models.TransactionFilters, limit, offset int) ([]models.Transaction, int64, error)

	// ListPending returns the admin review queue, oldest first.
	ListPending() ([]models.Transaction, error)

	// Stats computes live aggregate counts.
	Stats() (*models.TransactionStats, error)
}

type service struct {
	repo  repositories.TransactionRepository
	cache BalanceCache
}

func NewService(repo repositories.TransactionRepository, cache BalanceCache) Service {
	if repo == nil {
		panic("repo is required")
	}
	return &service{repo: repo, cache: cache}
}

func (s *service) SetStatus(ctx context.Context, transactionID, status, adminNotes string) (*models.Transaction, error) {
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	var updated *models.Transaction
	var credited bool
	var creditedUser uint

	err := s.repo.ExecuteInTransaction(func(txRepo repositories.TransactionRepository) error {
		tx, err := txRepo.GetByTransactionIDForUpdate(transactionID)
		if err != nil {
			if errors.Is(err, repositories.ErrTransactionNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Credit exactly once: only the first arrival at completed pays out.
		if status == models.StatusCompleted && tx.Status != models.StatusCompleted {
			if err := txRepo.CreditUserBalance(tx.UserID, tx.Amount); err != nil {
				if errors.Is(err, repositories.ErrBalanceNotFound) {
					return ErrBalanceMissing
				}
				return err
			}
			credited = true
			creditedUser = tx.UserID
		}

		tx.Status = status
		tx.AdminNotes = adminNotes
		if err := txRepo.Update(tx); err != nil {
			return err
		}

		updated = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	if credited && s.cache != nil {
		if err := s.cache.InvalidateBalance(ctx, creditedUser); err != nil {
			log.Printf("failed to invalidate balance cache for user %d: %v", creditedUser, err)
		}
	}

	return updated, nil
}

func (s *service) Approve(ctx context.Context, transactionID, adminNotes string) (*models.Transaction, error) {
	return s.SetStatus(ctx, transactionID, models.StatusCompleted, adminNotes)
}

func (s *service) Reject(ctx context.Context, transactionID, adminNotes string) (*models.Transaction, error) {
	return s.SetStatus(ctx, transactionID, models.StatusFailed, adminNotes)
}

func (s *service) GetForUser(transactionID string, userID uint) (*models.Transaction, error) {
	tx, err := s.repo.GetByTransactionIDForUser(transactionID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tx, nil
}

func (s *service) ListForUser(userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	return s.repo.ListByUser(userID, limit, offset)
}

func (s *service) ListAll(filters models.TransactionFilters, limit, offset int) ([]models.Transaction, int64, error) {
	return s.repo.ListAll(filters, limit, offset)
}

func (s *service) ListPending() ([]models.Transaction, error) {
	return s.repo.ListPending()
}

func (s *service) Stats() (*models.TransactionStats, error) {
	stats, err := s.repo.Stats()
	if err != nil {
		return nil, fmt.Errorf("failed to compute transaction stats: %w", err)
	}
	return stats, nil
}
