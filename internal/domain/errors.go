package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")

	// Payment confirmation outcomes.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrOrderNotPending      = errors.New("order is not pending")

	// ErrDeliveryFailed marks a failed OTP delivery. Distinct from store
	// failures: a code that was never delivered must not be reported as sent.
	ErrDeliveryFailed = errors.New("delivery failed")
)
