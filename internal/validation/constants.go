package validation

import "regexp"

const (
	// Password requirements
	MinPasswordLength = 6
	MaxPasswordLength = 72

	// String lengths
	MaxUsernameLength   = 50
	MaxAdminNotesLength = 2000
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9]{3,50}$`)
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
)
