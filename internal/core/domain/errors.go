package domain

import "errors"

var (
	// ErrInvalidArgument marks malformed input to a constructor or mutator:
	// blank required strings, non-positive ids or quantities, bad email
	// formats, zero or negative prices.
	ErrInvalidArgument = errors.New("invalid argument")

	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrOrderFinalized          = errors.New("order already finalized")
)
