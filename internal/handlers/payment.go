package handlers

import (
	"errors"
	"log"
	"strconv"

	"paydesk/internal/middleware"
	"paydesk/internal/models"
	"paydesk/internal/services/card"
	"paydesk/internal/services/deposit"
	"paydesk/internal/services/paymentaccount"
	"paydesk/internal/services/transaction"
	"paydesk/internal/utils"
	"paydesk/internal/utils/pagination"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type PaymentHandler struct {
	accountService     paymentaccount.Service
	depositService     deposit.Service
	transactionService transaction.Service
	cardService        card.Service
}

func NewPaymentHandler(
	accountService paymentaccount.Service,
	depositService deposit.Service,
	transactionService transaction.Service,
	cardService card.Service,
) *PaymentHandler {
	return &PaymentHandler{
		accountService:     accountService,
		depositService:     depositService,
		transactionService: transactionService,
		cardService:        cardService,
	}
}

// PaymentMethods lists the active payment accounts users can deposit through,
// ordered by priority.
func (h *PaymentHandler) PaymentMethods(c *fiber.Ctx) error {
	accounts, err := h.accountService.ListActive(c.Context())
	if err != nil {
		log.Printf("failed to list payment methods: %v", err)
		return utils.InternalError(c, "failed to load payment methods")
	}
	return utils.Success(c, "payment methods retrieved", fiber.Map{
		"paymentMethods": accounts,
	})
}

// PaymentMethodByType returns the preferred active account for a payment type.
func (h *PaymentHandler) PaymentMethodByType(c *fiber.Ctx) error {
	paymentType := c.Params("type")
	account, err := h.accountService.FindByType(c.Context(), paymentType)
	if err != nil {
		if errors.Is(err, paymentaccount.ErrNotFound) {
			return utils.NotFound(c, "no payment method available for this type")
		}
		return utils.InternalError(c, "failed to load payment method")
	}
	return utils.Success(c, "payment method retrieved", fiber.Map{
		"paymentMethod": account,
	})
}

// CreateDeposit creates a pending deposit request against a payment account.
func (h *PaymentHandler) CreateDeposit(c *fiber.Ctx) error {
	claims, err := middleware.Claims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		PaymentAccountID uint    `json:"paymentAccountId"`
		Amount           float64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	result, err := h.depositService.CreateDeposit(c.Context(), claims.UserID, input.PaymentAccountID, input.Amount)
	if err != nil {
		return h.depositError(c, err)
	}

	return utils.Created(c, "deposit request created", depositResponse(result.Transaction, result.PaymentAccount, result.PaymentDetails))
}

// CreateCardDeposit creates a pending deposit paid from a user card; the card
// may optionally be remembered for display.
func (h *PaymentHandler) CreateCardDeposit(c *fiber.Ctx) error {
	claims, err := middleware.Claims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		PaymentAccountID uint            `json:"paymentAccountId"`
		Amount           float64         `json:"amount"`
		CardData         models.CardData `json:"cardData"`
		SaveCard         bool            `json:"saveCard"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	result, err := h.depositService.CreateCardDeposit(c.Context(), claims.UserID, input.PaymentAccountID, input.Amount, input.CardData, input.SaveCard)
	if err != nil {
		return h.depositError(c, err)
	}

	resp := depositResponse(result.Transaction, result.PaymentAccount, result.Transaction.PaymentDetails)
	resp["cardSaved"] = result.CardSaved
	return utils.Created(c, "deposit request created", resp)
}

// MyTransactions pages the authenticated user's transactions, newest first.
func (h *PaymentHandler) MyTransactions(c *fiber.Ctx) error {
	claims, err := middleware.Claims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	p := pagination.ParseFromRequest(c, defaultPageSize, maxPageSize)
	transactions, total, err := h.transactionService.ListForUser(claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "failed to load transactions")
	}
	p.Total = total

	return utils.Success(c, "transactions retrieved", pagination.Response(p, "transactions", transactions))
}

// MyTransaction returns one of the authenticated user's transactions by
// reference.
func (h *PaymentHandler) MyTransaction(c *fiber.Ctx) error {
	claims, err := middleware.Claims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	tx, err := h.transactionService.GetForUser(c.Params("transactionId"), claims.UserID)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			return utils.NotFound(c, "transaction not found")
		}
		return utils.InternalError(c, "failed to load transaction")
	}

	return utils.Success(c, "transaction retrieved", fiber.Map{"transaction": tx})
}

// MyCards lists the authenticated user's saved cards.
func (h *PaymentHandler) MyCards(c *fiber.Ctx) error {
	claims, err := middleware.Claims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	cards, err := h.cardService.List(claims.UserID)
	if err != nil {
		return utils.InternalError(c, "failed to load cards")
	}

	return utils.Success(c, "cards retrieved", fiber.Map{"cards": cards})
}

func (h *PaymentHandler) depositError(c *fiber.Ctx, err error) error {
	var boundsErr *deposit.AmountBoundsError
	switch {
	case errors.Is(err, deposit.ErrAccountNotAvailable):
		return utils.NotFound(c, "payment account not available")
	case errors.Is(err, deposit.ErrInvalidAmount):
		return utils.BadRequest(c, "amount must be greater than 0")
	case errors.Is(err, deposit.ErrCardDataRequired):
		return utils.BadRequest(c, "card data is required")
	case errors.As(err, &boundsErr):
		return utils.BadRequest(c, boundsErr.Error())
	default:
		log.Printf("deposit failed: %v", err)
		return utils.InternalError(c, "failed to create deposit")
	}
}

func depositResponse(tx *models.Transaction, account *models.PaymentAccount, details models.JSON) fiber.Map {
	return fiber.Map{
		"transactionId":  tx.TransactionID,
		"amount":         tx.Amount,
		"commission":     tx.Commission,
		"totalAmount":    tx.TotalAmount,
		"currency":       models.DefaultCurrency,
		"status":         tx.Status,
		"paymentDetails": details,
		"expiresAt":      tx.ExpiresAt,
		"paymentMethod": fiber.Map{
			"id":          account.ID,
			"paymentType": account.PaymentType,
			"accountType": account.AccountType,
		},
	}
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
