package models

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Account state errors
	ErrAccountBanned = errors.New("account is banned")

	// Login throttling
	ErrTooManyLoginAttempts = errors.New("too many failed login attempts")

	// Card moderation errors
	ErrInvalidTransition = errors.New("card status does not allow this action")
	ErrReasonRequired    = errors.New("a reason is required for this action")
	ErrLoginTaken        = fmt.Errorf("login already in use: %w", ErrConflict)
	ErrEmailTaken        = fmt.Errorf("email already in use: %w", ErrConflict)
)

// LoginThrottledError is returned by the login flow while a login:ip key is blocked.
type LoginThrottledError struct {
	BlockUntil time.Time
}

func (e *LoginThrottledError) Error() string {
	return fmt.Sprintf("%s until %s", ErrTooManyLoginAttempts, e.BlockUntil.Format(time.RFC3339))
}

func (e *LoginThrottledError) Unwrap() error {
	return ErrTooManyLoginAttempts
}

// InvalidCredentialsError reports a failed credential check together with
// the number of attempts the login:ip key has left before it is blocked.
type InvalidCredentialsError struct {
	AttemptsLeft int
}

func (e *InvalidCredentialsError) Error() string {
	return fmt.Sprintf("invalid credentials (%d attempts left)", e.AttemptsLeft)
}

func (e *InvalidCredentialsError) Unwrap() error {
	return ErrUnauthorized
}
