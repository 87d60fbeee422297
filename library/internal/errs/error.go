package errs

import (
	"errors"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrInvalidCredentials  = errors.New("Invalid username, password, or role.")
	ErrUnauthenticated     = errors.New("authentication required")
	ErrAccessDenied        = errors.New("access denied")
	ErrPermissionDenied    = errors.New("user does not have a member profile")
	ErrInvalidPurchaseType = errors.New("invalid purchase type")
	ErrNoCopiesAvailable   = errors.New("no copies available")
)

// UniqueViolation reports which unique field a write collided with.
type UniqueViolation struct {
	Field string
}

func (e *UniqueViolation) Error() string {
	return e.Field + " already exists"
}

func (e *UniqueViolation) Is(target error) bool {
	return target == ErrAlreadyExists
}
