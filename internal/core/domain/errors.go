package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these onto HTTP status codes.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPendingApproval    = errors.New("account is pending approval")
)

// Error is a domain failure with a user-facing message. It matches its Kind
// under errors.Is.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Identity and authorization errors
var (
	ErrTokenInvalid     = newError(ErrUnauthorized, "Invalid access token")
	ErrTokenExpired     = newError(ErrUnauthorized, "Access token expired")
	ErrTokenMissing     = newError(ErrUnauthorized, "Access token required")
	ErrIdentityNotFound = newError(ErrUnauthorized, "User no longer exists")
	ErrRoleNotPermitted = newError(ErrForbidden, "You don't have permission to access this resource")
	ErrEmailTaken       = newError(ErrConflict, "User already exists with this email")
	ErrCannotDeleteSelf = newError(ErrInvalidInput, "You cannot delete yourself")
)

// Resource errors
var (
	ErrUserNotFound      = newError(ErrNotFound, "User not found")
	ErrFarmerNotFound    = newError(ErrNotFound, "Farmer not found")
	ErrProductNotFound   = newError(ErrNotFound, "Product not found")
	ErrMessageNotFound   = newError(ErrNotFound, "Message not found")
	ErrNotProductOwner   = newError(ErrForbidden, "Not authorized to modify this product")
	ErrNotMessageAddress = newError(ErrForbidden, "Not authorized")
)

// ValidationError reports a single rejected field. It matches ErrInvalidInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Invalid builds a ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
