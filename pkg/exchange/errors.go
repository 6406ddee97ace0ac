package exchange

import "errors"

// Common errors for exchange operations
var (
	// ErrInvalidPrice indicates that a feed returned a non-positive or non-numeric price
	ErrInvalidPrice = errors.New("invalid price")

	// ErrPriceUnavailable indicates that no usable price exists, fresh or stale
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrInvalidCurrency indicates that the currency code is empty or malformed
	ErrInvalidCurrency = errors.New("invalid currency")

	// ErrProviderUnavailable indicates that no price provider could serve the request
	ErrProviderUnavailable = errors.New("price provider unavailable")
)

// ProviderError represents an error from a price provider
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return "provider " + e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError checks if an error is or wraps a ProviderError
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
