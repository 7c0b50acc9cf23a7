package paymentaccount

import "errors"

var (
	ErrNotFound          = errors.New("payment account not found")
	ErrInvalidBounds     = errors.New("minAmount must not exceed maxAmount and both must be non-negative")
	ErrInvalidCommission = errors.New("commission must be between 0 and 100")
	ErrMissingDetails    = errors.New("accountDetails is required")
	ErrMissingType       = errors.New("paymentType and accountType are required")
)
