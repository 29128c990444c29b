package services

import "errors"

// Error types shared by the service layer. Handlers match on these to pick
// response codes; anything else is an internal fault.
var (
	// ErrDuplicateEmail is returned when registering an email that
	// already has an account.
	ErrDuplicateEmail = errors.New("email is already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnverifiedAccount is returned on login when verification is
	// required and the account has not confirmed its email.
	ErrUnverifiedAccount = errors.New("account email is not verified")

	// ErrNotFound is returned when a record does not exist OR belongs to
	// another user. Merging the two avoids leaking which ids exist.
	ErrNotFound = errors.New("not found or not authorized")

	// ErrInvalidID is returned for ids that are not well-formed, before
	// the store is consulted.
	ErrInvalidID = errors.New("invalid id")

	// ErrBadVerificationToken is returned when an email verification
	// token matches no pending account.
	ErrBadVerificationToken = errors.New("invalid verification token")
)

// ValidationError reports client-correctable input problems.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationError(msg string) error {
	return &ValidationError{Msg: msg}
}
