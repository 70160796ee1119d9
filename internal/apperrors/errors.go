// Package apperrors defines the error taxonomy shared by the domain,
// storage and service layers. Each failure kind has a sentinel so callers
// can branch with errors.Is, and a typed error carrying the offending
// field or id for precise reporting.
package apperrors

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrFormat marks malformed timestamp input.
	ErrFormat = errors.New("malformed timestamp")
	// ErrInvalidRange marks a degenerate or inverted period.
	ErrInvalidRange = errors.New("invalid period range")
	// ErrValidation marks a malformed contact or credential field.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an unknown entity id.
	ErrNotFound = errors.New("not found")
	// ErrPermission marks an operation the account's role disallows.
	ErrPermission = errors.New("operation not permitted")
	// ErrAvailability marks an overlap with an outstanding rental.
	ErrAvailability = errors.New("not available for period")
	// ErrAlreadyReturned marks a second return of the same record.
	ErrAlreadyReturned = errors.New("rental already returned")
	// ErrInvalidReturn marks a return time before the rental period start.
	ErrInvalidReturn = errors.New("invalid return time")
	// ErrPersistence marks a failed durable write. It is the only kind
	// eligible for caller-driven retry; all others are permanent for the
	// same input.
	ErrPersistence = errors.New("persistence failure")
)

// FormatError reports an input string that could not be parsed as a
// timestamp.
type FormatError struct {
	Field string
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %q is not a valid timestamp for %s", ErrFormat, e.Input, e.Field)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// RangeError reports a period whose end does not come after its start.
type RangeError struct {
	Start, End time.Time
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: end %s must be after start %s", ErrInvalidRange,
		e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
}

func (e *RangeError) Unwrap() error { return ErrInvalidRange }

// ValidationError reports a field that failed a precondition check.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: field %q %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports an id that resolved to no entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrNotFound, e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// PermissionError reports a role-based refusal.
type PermissionError struct {
	RenterID string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s: renter %q %s", ErrPermission, e.RenterID, e.Reason)
}

func (e *PermissionError) Unwrap() error { return ErrPermission }

// AvailabilityError reports a booking conflict on a vehicle.
type AvailabilityError struct {
	VehicleID string
	Period    string
}

func (e *AvailabilityError) Error() string {
	return fmt.Sprintf("%s: vehicle %q over %s", ErrAvailability, e.VehicleID, e.Period)
}

func (e *AvailabilityError) Unwrap() error { return ErrAvailability }

// AlreadyReturnedError reports a return attempt on a closed record.
type AlreadyReturnedError struct {
	RecordID string
}

func (e *AlreadyReturnedError) Error() string {
	return fmt.Sprintf("%s: record %q", ErrAlreadyReturned, e.RecordID)
}

func (e *AlreadyReturnedError) Unwrap() error { return ErrAlreadyReturned }

// InvalidReturnError reports a return time preceding the period start.
type InvalidReturnError struct {
	RecordID string
	At       time.Time
}

func (e *InvalidReturnError) Error() string {
	return fmt.Sprintf("%s: record %q at %s precedes period start", ErrInvalidReturn,
		e.RecordID, e.At.Format(time.RFC3339))
}

func (e *InvalidReturnError) Unwrap() error { return ErrInvalidReturn }

// PersistenceError reports a durable write or load failure; the prior
// snapshot remains intact.
type PersistenceError struct {
	Path  string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s at %q: %v", ErrPersistence, e.Path, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return ErrPersistence }
