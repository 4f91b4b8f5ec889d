package store

import "errors"

var (
	// ErrPreconditionFailed is returned when a conditional write was rejected
	// because its condition (usually "key exists") did not hold.
	ErrPreconditionFailed = errors.New("employee store: precondition failed")

	// ErrUnavailable wraps every backend failure that is not a failed precondition.
	ErrUnavailable = errors.New("employee store: unavailable")

	// ErrEmptyUpdate is returned when an update is built from an empty field set.
	ErrEmptyUpdate = errors.New("employee store: nothing to update")

	// ErrInvalidField is returned when an update names an attribute that is empty
	// or cannot be addressed as a single top-level attribute.
	ErrInvalidField = errors.New("employee store: invalid field name")
)
