package event_handler

import "errors"

// Data integrity failures. They are answered with 500 so Paystack retries.
var (
	ErrUnknownPlan        = errors.New("unknown plan code")
	ErrPlanMismatch       = errors.New("subscriber belongs to a different plan")
	ErrSubscriberNotFound = errors.New("subscriber not found")
)

// ErrNotConfigured is returned when no Paystack secret key is configured.
var ErrNotConfigured = errors.New("paystack webhook not configured")
