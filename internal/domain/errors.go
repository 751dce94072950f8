package domain

import "errors"

var (
	// ErrNotFound indicates the referenced payment does not exist.
	ErrNotFound = errors.New("payment not found")

	// ErrDuplicateID indicates an insert collided with an existing payment id.
	ErrDuplicateID = errors.New("payment id already exists")

	// ErrInvalidTransition indicates a status change outside the permitted
	// transition table.
	ErrInvalidTransition = errors.New("invalid status transition")
)
