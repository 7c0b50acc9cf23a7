package balance

import "errors"

var (
	// ErrBalanceMissing indicates the 1:1 user/balance invariant was broken.
	ErrBalanceMissing = errors.New("balance row missing for user")

	ErrInvalidAmount   = errors.New("amount must be non-negative")
	ErrInvalidCurrency = errors.New("currency must be a 3-letter code")
)
