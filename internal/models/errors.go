package models

import "errors"

// Business-rule violations. Handlers surface these to the caller as client-facing
// rejections with a stable message.
var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrAccessDenied        = errors.New("account not found or access denied")
	ErrDestinationNotFound = errors.New("destination account not found")
	ErrSameAccount         = errors.New("cannot transfer funds to the same account")
	ErrPaymentDeclined     = errors.New("payment declined by external gateway")
	ErrMissingOwner        = errors.New("owner identity is required")
)

// ErrAllocationExhausted means no unique account number could be generated within
// the retry bound. It is a server-side failure and is never retried.
var ErrAllocationExhausted = errors.New("failed to generate a unique account number")

var businessErrors = []error{
	ErrInvalidAmount,
	ErrInsufficientFunds,
	ErrAccessDenied,
	ErrDestinationNotFound,
	ErrSameAccount,
	ErrPaymentDeclined,
	ErrMissingOwner,
}

// IsBusinessError reports whether err is an expected rule violation rather than a
// system failure.
func IsBusinessError(err error) bool {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
