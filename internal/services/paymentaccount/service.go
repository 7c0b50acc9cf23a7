// Package paymentaccount manages the registry of admin-configured receiving
// accounts users pay into. Accounts are retired by deactivation, never
// deleted, so historical transactions keep a valid reference.
package paymentaccount

import (
	"context"
	"errors"
	"fmt"
	"log"

	"paydesk/internal/models"
	"paydesk/internal/repositories"
)

// Cache holds the active account list between admin edits.
type Cache interface {
	GetActiveAccounts(ctx context.Context) ([]models.PaymentAccount, error)
	SetActiveAccounts(ctx context.Context, accounts []models.PaymentAccount) error
	InvalidateActiveAccounts(ctx context.Context) error
}

type Service interface {
	// ListActive returns active accounts ordered by priority for public
	// payment method discovery.
	ListActive(ctx context.Context) ([]models.PaymentAccount, error)

	// FindByType returns the highest-priority active account for a payment type.
	FindByType(ctx context.Context, paymentType string) (*models.PaymentAccount, error)

	// GetByID returns an account regardless of active state (admin use).
	GetByID(id uint) (*models.PaymentAccount, error)

	// GetActiveByID returns an account only if it is active.
	GetActiveByID(id uint) (*models.PaymentAccount, error)

	// List returns every account for admin management.
	List() ([]models.PaymentAccount, error)

	Create(ctx context.Context, input models.CreatePaymentAccountInput) (*models.PaymentAccount, error)

	// Update applies partial edits; nil input fields keep prior values.
	Update(ctx context.Context, id uint, input models.UpdatePaymentAccountInput) (*models.PaymentAccount, error)

	CountActive() (int64, error)
}

type service struct {
	repo  repositories.PaymentAccountRepository
	cache Cache
}

func NewService(repo repositories.PaymentAccountRepository, cache Cache) Service {
	if repo == nil {
		panic("repo is required")
	}
	return &service{repo: repo, cache: cache}
}

func (s *service) ListActive(ctx context.Context) ([]models.PaymentAccount, error) {
	if s.cache != nil {
		if accounts, err := s.cache.GetActiveAccounts(ctx); err == nil {
			return accounts, nil
		}
	}

	accounts, err := s.repo.ListActive()
	if err != nil {
		return nil, fmt.Errorf("failed to list active accounts: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetActiveAccounts(ctx, accounts); err != nil {
			log.Printf("failed to cache payment accounts: %v", err)
		}
	}
	return accounts, nil
}

func (s *service) FindByType(ctx context.Context, paymentType string) (*models.PaymentAccount, error) {
	account, err := s.repo.FindActiveByType(paymentType)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentAccountNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *service) GetByID(id uint) (*models.PaymentAccount, error) {
	account, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentAccountNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *service) GetActiveByID(id uint) (*models.PaymentAccount, error) {
	account, err := s.repo.GetActiveByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentAccountNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *service) List() ([]models.PaymentAccount, error) {
	return s.repo.List()
}

func (s *service) Create(ctx context.Context, input models.CreatePaymentAccountInput) (*models.PaymentAccount, error) {
	if input.PaymentType == "" || input.AccountType == "" {
		return nil, ErrMissingType
	}
	if len(input.AccountDetails) == 0 {
		return nil, ErrMissingDetails
	}
	if err := validateBounds(input.MinAmount, input.MaxAmount, input.Commission); err != nil {
		return nil, err
	}

	account := &models.PaymentAccount{
		PaymentType:       input.PaymentType,
		AccountType:       input.AccountType,
		AccountDetails:    input.AccountDetails,
		AccountIdentifier: input.AccountIdentifier,
		Priority:          input.Priority,
		MinAmount:         input.MinAmount,
		MaxAmount:         input.MaxAmount,
		Commission:        input.Commission,
		IsActive:          true,
	}

	if err := s.repo.Create(account); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return account, nil
}

func (s *service) Update(ctx context.Context, id uint, input models.UpdatePaymentAccountInput) (*models.PaymentAccount, error) {
	account, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.PaymentType != nil {
		account.PaymentType = *input.PaymentType
	}
	if input.AccountType != nil {
		account.AccountType = *input.AccountType
	}
	if input.AccountDetails != nil {
		account.AccountDetails = input.AccountDetails
	}
	if input.AccountIdentifier != nil {
		account.AccountIdentifier = *input.AccountIdentifier
	}
	if input.Priority != nil {
		account.Priority = *input.Priority
	}
	if input.MinAmount != nil {
		account.MinAmount = *input.MinAmount
	}
	if input.MaxAmount != nil {
		account.MaxAmount = *input.MaxAmount
	}
	if input.Commission != nil {
		account.Commission = *input.Commission
	}
	if input.IsActive != nil {
		account.IsActive = *input.IsActive
	}

	if err := validateBounds(account.MinAmount, account.MaxAmount, account.Commission); err != nil {
		return nil, err
	}

	if err := s.repo.Update(account); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return account, nil
}

func (s *service) CountActive() (int64, error) {
	return s.repo.CountActive()
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateActiveAccounts(ctx); err != nil {
		log.Printf("failed to invalidate payment account cache: %v", err)
	}
}

func validateBounds(min, max, commission float64) error {
	if min < 0 || max < 0 || min > max {
		return ErrInvalidBounds
	}
	if commission < 0 || commission > 100 {
		return ErrInvalidCommission
	}
	return nil
}
