// Package card stores saved card fingerprints. Card numbers and CVVs are
// hashed one-way, so a saved card can be recognized and displayed (brand,
// last four) but never replayed for a payment.
package card

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"paydesk/internal/models"
	"paydesk/internal/repositories"
)

var (
	ErrIncompleteCardData = errors.New("incomplete card data")
	ErrInvalidExpiry      = errors.New("expiry must be in MM/YY format")
)

type Service interface {
	// Save upserts a card fingerprint, deduplicated by (user, last four,
	// holder). An existing match counts as saved, not as an error.
	Save(userID uint, data models.CardData) (*models.UserCard, error)

	// List returns the user's active saved cards.
	List(userID uint) ([]models.UserCard, error)
}

type service struct {
	repo      repositories.UserCardRepository
	secretKey string
}

func NewService(repo repositories.UserCardRepository, secretKey string) Service {
	if repo == nil {
		panic("repo is required")
	}
	return &service{repo: repo, secretKey: secretKey}
}

func (s *service) Save(userID uint, data models.CardData) (*models.UserCard, error) {
	if data.CardNumber == "" || data.CardHolder == "" || data.Expiry == "" || data.CVV == "" {
		return nil, ErrIncompleteCardData
	}

	month, year, err := parseExpiry(data.Expiry)
	if err != nil {
		return nil, err
	}

	lastFour := LastFour(data.CardNumber)

	existing, err := s.repo.FindExisting(userID, lastFour, data.CardHolder)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrCardNotFound) {
		return nil, err
	}

	card := &models.UserCard{
		UserID:      userID,
		CardNumber:  s.fingerprint(data.CardNumber),
		CVV:         s.fingerprint(data.CVV),
		CardHolder:  data.CardHolder,
		ExpiryMonth: month,
		ExpiryYear:  year,
		CardType:    DetectBrand(data.CardNumber),
		LastFour:    lastFour,
		IsDefault:   false,
		IsActive:    true,
	}

	if err := s.repo.Create(card); err != nil {
		return nil, fmt.Errorf("failed to save card: %w", err)
	}
	return card, nil
}

func (s *service) List(userID uint) ([]models.UserCard, error) {
	return s.repo.ListByUser(userID)
}

func (s *service) fingerprint(value string) string {
	sum := sha256.Sum256([]byte(value + s.secretKey))
	return hex.EncodeToString(sum[:])
}

func parseExpiry(expiry string) (month, year string, err error) {
	parts := strings.Split(expiry, "/")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return "", "", ErrInvalidExpiry
	}
	return parts[0], "20" + parts[1], nil
}
