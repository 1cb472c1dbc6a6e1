package provider

import (
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
)

// ErrTierUnsupported marks a feature that the provider does not offer at the account's access tier
var ErrTierUnsupported = goerr.New("feature not available at this access tier")

// Error is a failed provider call
type Error struct {
	Provider   string
	Message    string
	HTTPStatus int
	Body       string

	cause           error
	tierUnsupported bool
}

func (e *Error) Error() string {
	msg := e.Provider + ": " + e.Message
	if e.HTTPStatus != 0 {
		msg += fmt.Sprintf(" (status %d)", e.HTTPStatus)
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	var errs []error
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	if e.tierUnsupported {
		errs = append(errs, ErrTierUnsupported)
	}
	return errs
}

// TierUnsupported reports whether the call failed because the feature is gated
func (e *Error) TierUnsupported() bool {
	return e.tierUnsupported
}

// NewError creates a provider error wrapping cause, which may be nil
func NewError(provider, message string, cause error) *Error {
	return &Error{Provider: provider, Message: message, cause: cause}
}

// NewTierUnsupported creates an error for a feature the provider does not offer
func NewTierUnsupported(provider, feature string) *Error {
	return &Error{
		Provider:        provider,
		Message:         feature + " is not available at this access tier",
		tierUnsupported: true,
	}
}

// IsTierUnsupported reports whether err is, or wraps, a tier-unsupported provider error
func IsTierUnsupported(err error) bool {
	return errors.Is(err, ErrTierUnsupported)
}

// AsError extracts the provider error from err's chain
func AsError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
