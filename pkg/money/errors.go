package money

import "errors"

// Common money package errors
var (
	// ErrInvalidAmount is returned when an amount string cannot be parsed
	ErrInvalidAmount = errors.New("invalid amount")
)
