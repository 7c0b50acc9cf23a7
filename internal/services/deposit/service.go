// Package deposit builds pending deposit transactions against the configured
// payment accounts. No balance is touched here; crediting happens only when
// an admin completes the transaction.
package deposit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"paydesk/internal/models"
	"paydesk/internal/repositories"
	"paydesk/internal/services/card"
	"paydesk/internal/services/paymentaccount"

	"github.com/google/uuid"
)

// ExpiryWindow is how long a pending deposit stays payable before the
// deadline shown to the user passes. Expiry is advisory; nothing transitions
// the transaction automatically.
const ExpiryWindow = 24 * time.Hour

const maxReferenceAttempts = 3

// Result is the outcome of a deposit request.
type Result struct {
	Transaction    *models.Transaction
	PaymentAccount *models.PaymentAccount
	PaymentDetails models.JSON
}

// CardResult is the outcome of a card deposit request.
type CardResult struct {
	Transaction    *models.Transaction
	PaymentAccount *models.PaymentAccount
	CardSaved      bool
}

type Service interface {
	// CreateDeposit validates the amount against the account's bounds,
	// computes commission and total, and persists one pending transaction
	// with a payment details snapshot and a 24-hour expiry.
	CreateDeposit(ctx context.Context, userID, paymentAccountID uint, amount float64) (*Result, error)

	// CreateCardDeposit is the card variant: the snapshot carries only the
	// last four digits, holder and bank, and the submitted card may be saved
	// for later display. Card-save failures never fail the deposit.
	CreateCardDeposit(ctx context.Context, userID, paymentAccountID uint, amount float64, cardData models.CardData, saveCard bool) (*CardResult, error)
}

type service struct {
	accounts    paymentaccount.Service
	txRepo      repositories.TransactionRepository
	cardService card.Service
}

func NewService(accounts paymentaccount.Service, txRepo repositories.TransactionRepository, cardService card.Service) Service {
	if accounts == nil {
		panic("account service is required")
	}
	if txRepo == nil {
		panic("transaction repo is required")
	}
	if cardService == nil {
		panic("card service is required")
	}
	return &service{accounts: accounts, txRepo: txRepo, cardService: cardService}
}

func (s *service) CreateDeposit(ctx context.Context, userID, paymentAccountID uint, amount float64) (*Result, error) {
	account, err := s.resolveAccount(paymentAccountID)
	if err != nil {
		return nil, err
	}
	if err := validateAmount(amount, account); err != nil {
		return nil, err
	}

	details, err := buildPaymentDetails(account)
	if err != nil {
		return nil, fmt.Errorf("failed to build payment details: %w", err)
	}

	tx, err := s.persistTransaction(userID, account, amount, details)
	if err != nil {
		return nil, err
	}

	return &Result{
		Transaction:    tx,
		PaymentAccount: account,
		PaymentDetails: details,
	}, nil
}

func (s *service) CreateCardDeposit(ctx context.Context, userID, paymentAccountID uint, amount float64, cardData models.CardData, saveCard bool) (*CardResult, error) {
	if cardData.CardNumber == "" {
		return nil, ErrCardDataRequired
	}

	account, err := s.resolveAccount(paymentAccountID)
	if err != nil {
		return nil, err
	}
	if err := validateAmount(amount, account); err != nil {
		return nil, err
	}

	// Only the last four digits ever reach the snapshot; the full number is
	// never persisted with the transaction.
	details := models.JSON{
		"cardData": map[string]interface{}{
			"lastFourDigits": card.LastFour(cardData.CardNumber),
			"cardHolder":     cardData.CardHolder,
			"bank":           cardData.Bank,
		},
	}

	tx, err := s.persistTransaction(userID, account, amount, details)
	if err != nil {
		return nil, err
	}

	cardSaved := false
	if saveCard {
		if _, err := s.cardService.Save(userID, cardData); err != nil {
			// The deposit stands regardless of card-save problems.
			log.Printf("card save skipped for user %d: %v", userID, err)
		} else {
			cardSaved = true
		}
	}

	return &CardResult{
		Transaction:    tx,
		PaymentAccount: account,
		CardSaved:      cardSaved,
	}, nil
}

func (s *service) resolveAccount(paymentAccountID uint) (*models.PaymentAccount, error) {
	account, err := s.accounts.GetActiveByID(paymentAccountID)
	if err != nil {
		if errors.Is(err, paymentaccount.ErrNotFound) {
			return nil, ErrAccountNotAvailable
		}
		return nil, err
	}
	return account, nil
}

func (s *service) persistTransaction(userID uint, account *models.PaymentAccount, amount float64, details models.JSON) (*models.Transaction, error) {
	commission := amount * account.Commission / 100
	totalAmount := amount + commission
	expiresAt := time.Now().Add(ExpiryWindow)

	// The reference is unique by construction; the store's unique index is
	// the final arbiter, and a collision just means another roll.
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		tx := &models.Transaction{
			TransactionID:    newTransactionID(),
			UserID:           userID,
			PaymentAccountID: account.ID,
			Amount:           amount,
			Commission:       commission,
			TotalAmount:      totalAmount,
			Status:           models.StatusPending,
			PaymentDetails:   details,
			ExpiresAt:        &expiresAt,
		}

		err := s.txRepo.Create(tx)
		if err == nil {
			return tx, nil
		}
		if !repositories.IsUniqueViolation(err) {
			return nil, err
		}
	}
	return nil, errors.New("failed to allocate a unique transaction reference")
}

func validateAmount(amount float64, account *models.PaymentAccount) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount < account.MinAmount || amount > account.MaxAmount {
		return &AmountBoundsError{Min: account.MinAmount, Max: account.MaxAmount}
	}
	return nil
}

func newTransactionID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
	return fmt.Sprintf("TXN%d%s", time.Now().UnixMilli(), suffix)
}
