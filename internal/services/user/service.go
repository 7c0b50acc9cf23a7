// Package user handles registration and admin user management. Registration
// creates the user and their balance atomically; every user owns exactly one
// balance from the moment they exist.
package user

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"paydesk/internal/models"
	"paydesk/internal/repositories"
	"paydesk/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// Seed balance range for new registrations.
const (
	minSeedBalance = 0.15
	maxSeedBalance = 1.00
)

// ValidationError carries a field validation message to the API boundary.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type Service interface {
	// Register creates a user with a seeded starting balance.
	Register(input models.CreateUserInput) (*models.User, error)

	GetByID(id uint) (*models.User, error)

	// GetWithBalance returns a user with their balance preloaded (admin use).
	GetWithBalance(id uint) (*models.User, error)

	List(offset, limit int) ([]models.User, int64, error)

	// Update applies partial admin edits. actorID guards against an admin
	// changing their own role or active flag.
	Update(actorID, id uint, input models.UpdateUserInput) (*models.User, error)

	// Delete removes a user and all owned rows. actorID guards against
	// self-deletion.
	Delete(actorID, id uint) error
}

type service struct {
	repo repositories.UserRepository
}

func NewService(repo repositories.UserRepository) Service {
	if repo == nil {
		panic("repo is required")
	}
	return &service{repo: repo}
}

func (s *service) Register(input models.CreateUserInput) (*models.User, error) {
	v := validation.New()
	v.Username("username", input.Username)
	v.Email("email", input.Email)
	v.Password("password", input.Password)
	v.MinLength("firstName", input.FirstName, 2)
	v.MaxLength("firstName", input.FirstName, 50)
	v.MinLength("lastName", input.LastName, 2)
	v.MaxLength("lastName", input.LastName, 50)
	if !v.Valid() {
		return nil, &ValidationError{Message: v.First()}
	}

	if taken, err := s.repo.UsernameExists(input.Username, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrAlreadyExists
	}
	if taken, err := s.repo.EmailExists(input.Email, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:  input.Username,
		Email:     input.Email,
		Password:  string(hashed),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      models.RoleUser,
		IsActive:  true,
	}
	balance := &models.Balance{
		Amount:   seedBalance(),
		Currency: models.DefaultCurrency,
	}

	if err := s.repo.CreateWithBalance(user, balance); err != nil {
		if errors.Is(err, repositories.ErrUsernameTaken) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	user.Balance = balance
	return user, nil
}

func (s *service) GetByID(id uint) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *service) GetWithBalance(id uint) (*models.User, error) {
	user, err := s.repo.GetByIDWithBalance(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *service) List(offset, limit int) ([]models.User, int64, error) {
	return s.repo.List(offset, limit)
}

func (s *service) Update(actorID, id uint, input models.UpdateUserInput) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if actorID == id {
		roleChanged := input.Role != nil && *input.Role != user.Role
		deactivated := input.IsActive != nil && !*input.IsActive
		if roleChanged || deactivated {
			return nil, ErrSelfModification
		}
	}

	if input.Username != nil && *input.Username != user.Username {
		taken, err := s.repo.UsernameExists(*input.Username, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		user.Username = *input.Username
	}
	if input.Email != nil && *input.Email != user.Email {
		taken, err := s.repo.EmailExists(*input.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.repo.Update(user); err != nil {
		if errors.Is(err, repositories.ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *service) Delete(actorID, id uint) error {
	if actorID == id {
		return ErrSelfDeletion
	}
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func seedBalance() float64 {
	amount := minSeedBalance + rand.Float64()*(maxSeedBalance-minSeedBalance)
	return math.Round(amount*100) / 100
}
