package handlers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"paydesk/internal/middleware"
	"paydesk/internal/models"
	"paydesk/internal/services/balance"
	"paydesk/internal/services/paymentaccount"
	"paydesk/internal/services/transaction"
	"paydesk/internal/services/user"
	"paydesk/internal/utils"
	"paydesk/internal/utils/pagination"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	userService        user.Service
	balanceService     balance.Service
	accountService     paymentaccount.Service
	transactionService transaction.Service
}

func NewAdminHandler(
	userService user.Service,
	balanceService balance.Service,
	accountService paymentaccount.Service,
	transactionService transaction.Service,
) *AdminHandler {
	return &AdminHandler{
		userService:        userService,
		balanceService:     balanceService,
		accountService:     accountService,
		transactionService: transactionService,
	}
}

// ListUsers pages all users, newest first.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c, defaultPageSize, maxPageSize)
	users, total, err := h.userService.List(p.Offset, p.Limit)
	if err != nil {
		return utils.InternalError(c, "failed to load users")
	}
	p.Total = total

	return utils.Success(c, "users retrieved", pagination.Response(p, "users", users))
}

// GetUser returns a user with their balance.
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid user id")
	}

	found, err := h.userService.GetWithBalance(id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return utils.NotFound(c, "user not found")
		}
		return utils.InternalError(c, "failed to load user")
	}

	return utils.Success(c, "user retrieved", fiber.Map{"user": found})
}

// UpdateUser applies partial edits to a user. Admins cannot change their own
// role or deactivate themselves.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	claims, err := middleware.Claims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid user id")
	}

	var input models.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	updated, err := h.userService.Update(claims.UserID, id, input)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			return utils.NotFound(c, "user not found")
		case errors.Is(err, user.ErrSelfModification):
			return utils.Forbidden(c, "admins cannot modify their own status or role")
		case errors.Is(err, user.ErrUsernameTaken):
			return utils.Conflict(c, "username already taken")
		case errors.Is(err, user.ErrEmailTaken):
			return utils.Conflict(c, "email already taken")
		default:
			return utils.InternalError(c, "failed to update user")
		}
	}

	return utils.Success(c, "user updated", fiber.Map{"user": updated})
}

// DeleteUser removes a user and all their owned rows.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	claims, err := middleware.Claims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid user id")
	}

	if err := h.userService.Delete(claims.UserID, id); err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			return utils.NotFound(c, "user not found")
		case errors.Is(err, user.ErrSelfDeletion):
			return utils.Forbidden(c, "admins cannot delete their own account")
		default:
			return utils.InternalError(c, "failed to delete user")
		}
	}

	return utils.Success(c, "user deleted", nil)
}

// GetUserBalance returns a user's balance.
func (h *AdminHandler) GetUserBalance(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid user id")
	}

	bal, err := h.balanceService.Read(c.Context(), id)
	if err != nil {
		if errors.Is(err, balance.ErrBalanceMissing) {
			return utils.NotFound(c, "balance not found")
		}
		return utils.InternalError(c, "failed to load balance")
	}

	return utils.Success(c, "balance retrieved", fiber.Map{
		"userId":      bal.UserID,
		"amount":      bal.Amount,
		"currency":    bal.Currency,
		"formatted":   bal.Formatted(),
		"lastUpdated": bal.LastUpdated,
	})
}

// SetUserBalance overrides a user's balance with an absolute value.
func (h *AdminHandler) SetUserBalance(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid user id")
	}

	var input struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	bal, err := h.balanceService.SetAbsolute(c.Context(), id, input.Amount, input.Currency)
	if err != nil {
		switch {
		case errors.Is(err, balance.ErrInvalidAmount):
			return utils.BadRequest(c, "amount must not be negative")
		case errors.Is(err, balance.ErrInvalidCurrency):
			return utils.BadRequest(c, "currency must be a 3-letter code")
		case errors.Is(err, balance.ErrBalanceMissing):
			return utils.NotFound(c, "balance not found")
		default:
			return utils.InternalError(c, "failed to update balance")
		}
	}

	return utils.Success(c, "balance updated", fiber.Map{"balance": bal})
}

// ListPaymentAccounts returns every configured payment account.
func (h *AdminHandler) ListPaymentAccounts(c *fiber.Ctx) error {
	accounts, err := h.accountService.List()
	if err != nil {
		return utils.InternalError(c, "failed to load payment accounts")
	}
	return utils.Success(c, "payment accounts retrieved", fiber.Map{"paymentAccounts": accounts})
}

// GetPaymentAccount returns one payment account regardless of active state.
func (h *AdminHandler) GetPaymentAccount(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid payment account id")
	}

	account, err := h.accountService.GetByID(id)
	if err != nil {
		if errors.Is(err, paymentaccount.ErrNotFound) {
			return utils.NotFound(c, "payment account not found")
		}
		return utils.InternalError(c, "failed to load payment account")
	}

	return utils.Success(c, "payment account retrieved", fiber.Map{"paymentAccount": account})
}

// CreatePaymentAccount adds a new receiving account.
func (h *AdminHandler) CreatePaymentAccount(c *fiber.Ctx) error {
	var input models.CreatePaymentAccountInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	account, err := h.accountService.Create(c.Context(), input)
	if err != nil {
		return h.accountError(c, err)
	}

	return utils.Created(c, "payment account created", fiber.Map{"paymentAccount": account})
}

// UpdatePaymentAccount applies partial edits to a payment account.
func (h *AdminHandler) UpdatePaymentAccount(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid payment account id")
	}

	var input models.UpdatePaymentAccountInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	account, err := h.accountService.Update(c.Context(), id, input)
	if err != nil {
		if errors.Is(err, paymentaccount.ErrNotFound) {
			return utils.NotFound(c, "payment account not found")
		}
		return h.accountError(c, err)
	}

	return utils.Success(c, "payment account updated", fiber.Map{"paymentAccount": account})
}

// ListTransactions pages all transactions with optional filters: status,
// paymentAccountId, dateFrom, dateTo (RFC 3339 or YYYY-MM-DD).
func (h *AdminHandler) ListTransactions(c *fiber.Ctx) error {
	filters, err := parseTransactionFilters(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	p := pagination.ParseFromRequest(c, defaultPageSize, maxPageSize)
	transactions, total, err := h.transactionService.ListAll(filters, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "failed to load transactions")
	}
	p.Total = total

	return utils.Success(c, "transactions retrieved", pagination.Response(p, "transactions", transactions))
}

// ListPendingTransactions returns the review queue, oldest first.
func (h *AdminHandler) ListPendingTransactions(c *fiber.Ctx) error {
	transactions, err := h.transactionService.ListPending()
	if err != nil {
		return utils.InternalError(c, "failed to load pending transactions")
	}
	return utils.Success(c, "pending transactions retrieved", fiber.Map{
		"transactions": transactions,
		"count":        len(transactions),
	})
}

// UpdateTransactionStatus transitions a transaction to any recognized status.
func (h *AdminHandler) UpdateTransactionStatus(c *fiber.Ctx) error {
	var input struct {
		Status     string `json:"status"`
		AdminNotes string `json:"adminNotes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	tx, err := h.transactionService.SetStatus(c.Context(), c.Params("transactionId"), input.Status, input.AdminNotes)
	if err != nil {
		return h.transactionError(c, err)
	}

	return utils.Success(c, "transaction status updated", fiber.Map{"transaction": tx})
}

// ApproveTransaction completes a transaction and credits the user's balance.
func (h *AdminHandler) ApproveTransaction(c *fiber.Ctx) error {
	var input struct {
		AdminNotes string `json:"adminNotes"`
	}
	// The body is optional for approvals.
	_ = c.BodyParser(&input)

	tx, err := h.transactionService.Approve(c.Context(), c.Params("transactionId"), input.AdminNotes)
	if err != nil {
		return h.transactionError(c, err)
	}

	return utils.Success(c, "transaction approved", fiber.Map{"transaction": tx})
}

// RejectTransaction marks a transaction failed without touching the balance.
func (h *AdminHandler) RejectTransaction(c *fiber.Ctx) error {
	var input struct {
		AdminNotes string `json:"adminNotes"`
	}
	_ = c.BodyParser(&input)

	tx, err := h.transactionService.Reject(c.Context(), c.Params("transactionId"), input.AdminNotes)
	if err != nil {
		return h.transactionError(c, err)
	}

	return utils.Success(c, "transaction rejected", fiber.Map{"transaction": tx})
}

// TransactionStats returns live aggregate transaction counts.
func (h *AdminHandler) TransactionStats(c *fiber.Ctx) error {
	stats, err := h.transactionService.Stats()
	if err != nil {
		log.Printf("failed to compute transaction stats: %v", err)
		return utils.InternalError(c, "failed to compute stats")
	}
	return utils.Success(c, "transaction stats retrieved", fiber.Map{"stats": stats})
}

// Dashboard aggregates live platform counters.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.transactionService.Stats()
	if err != nil {
		log.Printf("failed to compute dashboard stats: %v", err)
		return utils.InternalError(c, "failed to compute stats")
	}

	activeAccounts, err := h.accountService.CountActive()
	if err != nil {
		return utils.InternalError(c, "failed to compute stats")
	}

	totalHeld, err := h.balanceService.TotalHeld()
	if err != nil {
		return utils.InternalError(c, "failed to compute stats")
	}

	_, totalUsers, err := h.userService.List(0, 1)
	if err != nil {
		return utils.InternalError(c, "failed to compute stats")
	}

	return utils.Success(c, "dashboard stats retrieved", fiber.Map{
		"totalUsers":            totalUsers,
		"transactions":          stats,
		"activePaymentAccounts": activeAccounts,
		"totalBalanceHeld":      totalHeld,
		"currency":              models.DefaultCurrency,
	})
}

func (h *AdminHandler) accountError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, paymentaccount.ErrMissingType):
		return utils.BadRequest(c, "payment type and account type are required")
	case errors.Is(err, paymentaccount.ErrMissingDetails):
		return utils.BadRequest(c, "account details are required")
	case errors.Is(err, paymentaccount.ErrInvalidBounds):
		return utils.BadRequest(c, "amount bounds are invalid")
	case errors.Is(err, paymentaccount.ErrInvalidCommission):
		return utils.BadRequest(c, "commission must be between 0 and 100")
	default:
		log.Printf("payment account operation failed: %v", err)
		return utils.InternalError(c, "payment account operation failed")
	}
}

func (h *AdminHandler) transactionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, transaction.ErrNotFound):
		return utils.NotFound(c, "transaction not found")
	case errors.Is(err, transaction.ErrInvalidStatus):
		return utils.BadRequest(c, "invalid transaction status")
	case errors.Is(err, transaction.ErrBalanceMissing):
		return utils.InternalError(c, "user balance record is missing")
	default:
		log.Printf("transaction update failed: %v", err)
		return utils.InternalError(c, "failed to update transaction")
	}
}

func parseTransactionFilters(c *fiber.Ctx) (models.TransactionFilters, error) {
	filters := models.TransactionFilters{Status: c.Query("status")}

	if raw := c.Query("paymentAccountId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return filters, errors.New("invalid paymentAccountId")
		}
		filters.PaymentAccountID = uint(id)
	}

	if raw := c.Query("dateFrom"); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			return filters, errors.New("invalid dateFrom")
		}
		filters.DateFrom = &from
	}

	if raw := c.Query("dateTo"); raw != "" {
		to, err := parseDate(raw)
		if err != nil {
			return filters, errors.New("invalid dateTo")
		}
		filters.DateTo = &to
	}

	return filters, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
