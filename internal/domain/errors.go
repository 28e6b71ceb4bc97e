package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrSecurityNotFound    = errors.New("security_not_found")
	ErrOrderNotFound       = errors.New("order_not_found")
	ErrOrderNotPending     = errors.New("order_not_pending_approval")
	ErrOrderNotCancellable = errors.New("order_not_cancellable")
	ErrWebhookNotFound     = errors.New("webhook_not_found")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ComplianceError is returned when order submission is blocked by one or
// more hard pre-trade check failures. Reasons holds the fully rendered
// message of each hard check.
type ComplianceError struct {
	Reasons []string
}

func (e *ComplianceError) Error() string {
	return "order blocked by compliance checks"
}
