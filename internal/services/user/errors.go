package user

import "errors"

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user with this email or username already exists")
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")

	// ErrSelfModification guards an admin against locking themselves out by
	// editing their own role or active flag.
	ErrSelfModification = errors.New("admin cannot modify their own status or role")
	ErrSelfDeletion     = errors.New("admin cannot delete their own account")
)
