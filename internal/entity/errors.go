package entity

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation error")
	ErrAuth       = errors.New("authentication error")
	ErrNotFound   = errors.New("not found")
	ErrNetwork    = errors.New("network error")
	ErrForbidden  = errors.New("forbidden")
)

var (
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrInvalidTransition   = errors.New("operation is not allowed in the current state")
	ErrRoleSwitchInFlight  = errors.New("role switch already in progress")
	ErrRoleNotAssigned     = errors.New("role is not assigned to the user")
	ErrResetTokenUnchecked = errors.New("reset token has not been verified")
)

const GenericErrorMessage = "Something went wrong. Please try again."

// ValidationError is a local, pre-network failure. Message is shown to the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// APIError is a failure reported by the backend or the transport.
// Kind is one of ErrAuth, ErrNotFound, ErrForbidden, ErrValidation or ErrNetwork.
type APIError struct {
	Kind       error
	StatusCode int
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return GenericErrorMessage
	}

	return e.Message
}

func (e *APIError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Cause}
}

// OTPRequiredError is returned by a password login that needs a second factor.
type OTPRequiredError struct {
	UserID string
}

func (e *OTPRequiredError) Error() string {
	return fmt.Sprintf("one-time code required for user %s", e.UserID)
}

// BulkError reports an aggregate failure of a bulk operation without per-item detail.
type BulkError struct {
	Op     string
	Total  int
	Failed int
}

func (e *BulkError) Error() string {
	return fmt.Sprintf("%s failed for %d of %d documents", e.Op, e.Failed, e.Total)
}
