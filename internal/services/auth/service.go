package auth

import (
	"errors"
	"log"
	"time"

	"paydesk/internal/models"
	"paydesk/internal/repositories"
	"paydesk/internal/utils"
	"paydesk/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrWeakPassword       = errors.New("password does not meet requirements")
)

type Service interface {
	// Login authenticates by username or email and issues a token.
	Login(identifier, password string) (*models.User, string, error)

	ChangePassword(userID uint, currentPassword, newPassword string) error
}

type service struct {
	userRepo repositories.UserRepository
}

func NewService(userRepo repositories.UserRepository) Service {
	return &service{userRepo: userRepo}
}

func (s *service) Login(identifier, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByUsernameOrEmail(identifier)
	if err != nil {
		log.Printf("login failed: no user for identifier %q", identifier)
		return nil, "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", ErrAccountDeactivated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("login failed: wrong password for user %d", user.ID)
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.Update(user); err != nil {
		log.Printf("failed to record last login for user %d: %v", user.ID, err)
	}

	token, err := utils.GenerateToken(&models.UserClaims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
	if err != nil {
		log.Println("error generating token:", err)
		return nil, "", errors.New("error generating token")
	}

	return user, token, nil
}

func (s *service) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return errors.New("failed to get user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return errors.New("current password is incorrect")
	}

	v := validation.New()
	v.Password("password", newPassword)
	if !v.Valid() {
		return ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	user.Password = string(hashed)
	if err := s.userRepo.Update(user); err != nil {
		return errors.New("failed to update password")
	}

	return nil
}
