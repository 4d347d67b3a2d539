package paystack

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSignature is returned when a delivery fails signature verification.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrInvalidPayload is returned when a delivery body cannot be decoded or validated.
	ErrInvalidPayload = errors.New("invalid webhook payload")
)

// ParseError describes why a body was rejected. It matches ErrInvalidPayload
// with errors.Is.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrInvalidPayload, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidPayload, e.Reason)
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidPayload}
	}
	return []error{ErrInvalidPayload, e.Err}
}
