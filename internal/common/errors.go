// Package common defines shared sentinel errors used across the client
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound     = errors.New("not found")
	ErrUnknownTable = errors.New("unknown table")

	// Domain precondition violations. Domain operations return these
	// instead of raw store errors so the UI can display the reason verbatim.
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrPenOverCapacity   = errors.New("pen over capacity")
	ErrDuplicateTag      = errors.New("duplicate active tag number")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrNoTargets         = errors.New("no target animals")

	// Auth / transport errors.
	ErrUnauthorized = errors.New("unauthorized")
)
