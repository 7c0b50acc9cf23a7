package transaction

import "errors"

var (
	ErrNotFound       = errors.New("transaction not found")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrBalanceMissing = errors.New("balance row missing for transaction owner")
)
