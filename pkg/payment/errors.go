// Package payment holds what the PIX and Bitcoin encoders share.
package payment

import "errors"

// ErrInvalidInput is returned by the encoders before any encoding work starts.
var ErrInvalidInput = errors.New("invalid input")

// Method identifies how a customer pays a generated code.
type Method string

const (
	MethodPix     Method = "pix"
	MethodBitcoin Method = "bitcoin"
)
