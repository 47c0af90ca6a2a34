package domain

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError reports an invariant violation: duplicate active listing,
// overlapping showing window, duplicate transaction per offer, or a delete
// blocked by dependent records.
type ConflictError struct {
	Entity EntityType
	ID     string
	Reason string
}

func (e ConflictError) Error() string {
	return e.Reason
}

// InvalidStateError reports an operation attempted against an entity whose
// current status forbids it.
type InvalidStateError struct {
	Entity EntityType
	ID     string
	Status string
	Reason string
}

func (e InvalidStateError) Error() string {
	return e.Reason
}

// TimeoutError reports that an underlying storage call exceeded the caller's
// deadline or was cancelled.
type TimeoutError struct {
	Op string
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("%s: operation timed out", e.Op)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

// IsInvalidState reports whether err is an InvalidStateError.
func IsInvalidState(err error) bool {
	var target InvalidStateError
	return errors.As(err, &target)
}

// IsTimeout reports whether err is a TimeoutError.
func IsTimeout(err error) bool {
	var target TimeoutError
	return errors.As(err, &target)
}
