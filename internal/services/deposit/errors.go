package deposit

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotAvailable = errors.New("payment account not available")
	ErrInvalidAmount       = errors.New("amount must be greater than 0")
	ErrCardDataRequired    = errors.New("card data is required")
)

// AmountBoundsError reports a requested amount outside the account's limits;
// the message states the bounds so the user can correct the request.
type AmountBoundsError struct {
	Min float64
	Max float64
}

func (e *AmountBoundsError) Error() string {
	return fmt.Sprintf("amount must be between %v and %v AZN", e.Min, e.Max)
}
