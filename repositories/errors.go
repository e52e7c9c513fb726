// Package repositories contains the persistence contracts and their MongoDB
// implementations. Controllers depend on the interfaces only.
package repositories

import "errors"

var (
	// ErrNotFound is returned when a referenced document does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key constraint is violated.
	ErrDuplicate = errors.New("duplicate record")
)
