package services

import "errors"

// Sentinel errors returned by the payment flow. Handlers map these onto the
// HTTP error taxonomy; anything else is a 500.
var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrPaymentNotFound = errors.New("payment not found")

	ErrInvalidName    = errors.New("name is required and must be at most 120 characters")
	ErrInvalidEmail   = errors.New("a valid email is required")
	ErrMissingProof   = errors.New("either a transaction id or a receipt email is required")
	ErrAmbiguousProof = errors.New("provide either a transaction id or a receipt email, not both")

	ErrDuplicateTransaction = errors.New("transaction already submitted")
	ErrPendingExists        = errors.New("pending payment already exists")

	ErrPaymentNotPending = errors.New("payment has already been processed")
)
