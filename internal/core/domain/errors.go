package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("not authorized")
	ErrTaskNotFound       = errors.New("task not found")

	// ErrUnauthenticated covers every failure of the session check.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrMissingBearer is returned when the Authorization header is absent or not "Bearer <token>".
	ErrMissingBearer = fmt.Errorf("%w: missing or malformed authorization header", ErrUnauthenticated)
	// ErrInvalidToken is returned when a bearer token is present but fails signature or expiry checks.
	ErrInvalidToken = fmt.Errorf("%w: invalid or expired token", ErrUnauthenticated)
)

// ValidationError reports client input that cannot be processed.
type ValidationError struct {
	Msg string
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.Msg }

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
