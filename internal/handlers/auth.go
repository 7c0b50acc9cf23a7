package handlers

import (
	"errors"
	"log"

	"paydesk/internal/middleware"
	"paydesk/internal/models"
	"paydesk/internal/services/auth"
	"paydesk/internal/services/balance"
	"paydesk/internal/services/user"
	"paydesk/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	userService    user.Service
	authService    auth.Service
	balanceService balance.Service
}

func NewAuthHandler(userService user.Service, authService auth.Service, balanceService balance.Service) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		authService:    authService,
		balanceService: balanceService,
	}
}

// Register creates a new user account with its starting balance.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input models.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	created, err := h.userService.Register(input)
	if err != nil {
		var vErr *user.ValidationError
		switch {
		case errors.As(err, &vErr):
			return utils.BadRequest(c, vErr.Message)
		case errors.Is(err, user.ErrAlreadyExists):
			return utils.Conflict(c, "user with this email or username already exists")
		default:
			log.Printf("registration failed: %v", err)
			return utils.InternalError(c, "registration failed")
		}
	}

	token, err := utils.GenerateToken(&models.UserClaims{
		UserID:   created.ID,
		Username: created.Username,
		Email:    created.Email,
		Role:     created.Role,
	})
	if err != nil {
		log.Printf("token generation failed for user %d: %v", created.ID, err)
		return utils.InternalError(c, "registration failed")
	}

	return utils.Created(c, "registration successful", fiber.Map{
		"user":  created,
		"token": token,
	})
}

// Login authenticates by username or email.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	identifier := input.Username
	if identifier == "" {
		identifier = input.Email
	}
	if identifier == "" || input.Password == "" {
		return utils.BadRequest(c, "username/email and password are required")
	}

	authenticated, token, err := h.authService.Login(identifier, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return utils.Unauthorized(c, "invalid credentials")
		case errors.Is(err, auth.ErrAccountDeactivated):
			return utils.Forbidden(c, "account is deactivated")
		default:
			return utils.InternalError(c, "authentication failed")
		}
	}

	return utils.Success(c, "login successful", fiber.Map{
		"user":  authenticated,
		"token": token,
	})
}

// Profile returns the authenticated user with their balance.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	claims, err := middleware.Claims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	profile, err := h.userService.GetWithBalance(claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return utils.NotFound(c, "user not found")
		}
		return utils.InternalError(c, "failed to load profile")
	}

	resp := fiber.Map{"user": profile}
	if profile.Balance != nil {
		resp["formattedBalance"] = profile.Balance.Formatted()
	}
	return utils.Success(c, "profile retrieved", resp)
}

// ChangePassword updates the authenticated user's password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	claims, err := middleware.Claims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if input.CurrentPassword == "" || input.NewPassword == "" {
		return utils.BadRequest(c, "current and new password are required")
	}

	if err := h.authService.ChangePassword(claims.UserID, input.CurrentPassword, input.NewPassword); err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return utils.BadRequest(c, "password does not meet requirements")
		}
		return utils.BadRequest(c, err.Error())
	}

	return utils.Success(c, "password changed", nil)
}

// Balance returns the authenticated user's balance.
func (h *AuthHandler) Balance(c *fiber.Ctx) error {
	claims, err := middleware.Claims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	bal, err := h.balanceService.Read(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, balance.ErrBalanceMissing) {
			return utils.NotFound(c, "balance not found")
		}
		return utils.InternalError(c, "failed to load balance")
	}

	return utils.Success(c, "balance retrieved", fiber.Map{
		"amount":      bal.Amount,
		"currency":    bal.Currency,
		"formatted":   bal.Formatted(),
		"lastUpdated": bal.LastUpdated,
	})
}
