// Package balance is the ledger for user funds. A user's balance is mutated
// only at registration (seed), by admin override, or by the transaction
// completion transition; it never goes negative under non-negative inputs.
package balance

import (
	"context"
	"errors"
	"fmt"
	"log"

	"paydesk/internal/models"
	"paydesk/internal/repositories"
	"paydesk/internal/validation"
)

// Cache holds recently read balances; invalidated on every mutation.
type Cache interface {
	GetBalance(ctx context.Context, userID uint) (*models.Balance, error)
	SetBalance(ctx context.Context, balance *models.Balance) error
	InvalidateBalance(ctx context.Context, userID uint) error
}

type Service interface {
	// Read returns the user's current balance.
	Read(ctx context.Context, userID uint) (*models.Balance, error)

	// Credit atomically adds a non-negative amount to the user's balance.
	Credit(ctx context.Context, userID uint, amount float64) error

	// SetAbsolute replaces the balance value directly (admin override).
	// An empty currency keeps the prior value.
	SetAbsolute(ctx context.Context, userID uint, amount float64, currency string) (*models.Balance, error)

	// TotalHeld sums every user balance, for the admin dashboard.
	TotalHeld() (float64, error)
}

type service struct {
	repo  repositories.BalanceRepository
	cache Cache
}

func NewService(repo repositories.BalanceRepository, cache Cache) Service {
	if repo == nil {
		panic("repo is required")
	}
	return &service{repo: repo, cache: cache}
}

func (s *service) Read(ctx context.Context, userID uint) (*models.Balance, error) {
	if s.cache != nil {
		if balance, err := s.cache.GetBalance(ctx, userID); err == nil {
			return balance, nil
		}
	}

	balance, err := s.repo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrBalanceNotFound) {
			return nil, ErrBalanceMissing
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetBalance(ctx, balance); err != nil {
			log.Printf("failed to cache balance for user %d: %v", userID, err)
		}
	}
	return balance, nil
}

func (s *service) Credit(ctx context.Context, userID uint, amount float64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}

	if err := s.repo.Credit(userID, amount); err != nil {
		if errors.Is(err, repositories.ErrBalanceNotFound) {
			return ErrBalanceMissing
		}
		return fmt.Errorf("failed to credit balance: %w", err)
	}

	s.invalidate(ctx, userID)
	return nil
}

func (s *service) SetAbsolute(ctx context.Context, userID uint, amount float64, currency string) (*models.Balance, error) {
	if amount < 0 {
		return nil, ErrInvalidAmount
	}
	if currency != "" {
		v := validation.New()
		v.Currency("currency", currency)
		if !v.Valid() {
			return nil, ErrInvalidCurrency
		}
	}

	balance, err := s.repo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrBalanceNotFound) {
			return nil, ErrBalanceMissing
		}
		return nil, err
	}

	balance.Amount = amount
	if currency != "" {
		balance.Currency = currency
	}

	if err := s.repo.Update(balance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	s.invalidate(ctx, userID)
	return balance, nil
}

func (s *service) TotalHeld() (float64, error) {
	total, err := s.repo.SumAll()
	if err != nil {
		return 0, fmt.Errorf("failed to sum balances: %w", err)
	}
	return total, nil
}

func (s *service) invalidate(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateBalance(ctx, userID); err != nil {
		log.Printf("failed to invalidate balance cache for user %d: %v", userID, err)
	}
}
