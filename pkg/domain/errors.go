package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrDecode is returned when a raw ledger event cannot be turned into a domain event
	ErrDecode = errors.New("malformed ledger event")
	// ErrNotYetProcessable is returned when an event depends on a record that is not stored yet
	ErrNotYetProcessable = errors.New("event not yet processable")
	// ErrStore is returned on storage-layer failures
	ErrStore = errors.New("store failure")
	// ErrOutbound is returned when a compensating call to the ledger fails
	ErrOutbound = errors.New("outbound call failed")
	// ErrAlreadyApplied is returned by the ledger when the target state was already reached
	ErrAlreadyApplied = errors.New("already applied on ledger")
	// ErrIndexNotFound is returned when the queried search index does not exist
	ErrIndexNotFound = errors.New("index not found")
	// ErrConversionUnavailable is returned when no usable exchange rate exists
	ErrConversionUnavailable = errors.New("conversion unavailable")
)

// DecodeError describes which field of a raw event could not be decoded.
type DecodeError struct {
	Event  string
	Field  string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("decode %s", e.Event)
	if e.Field != "" {
		msg += fmt.Sprintf(" field %q", e.Field)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap lets errors.Is match both ErrDecode and the underlying cause.
func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDecode}
	}
	return []error{ErrDecode, e.Err}
}
