package money

// Code represents a currency code (e.g., "BRL", "BTC").
type Code string

// Currency codes used by the payment flows
const (
	BRL Code = "BRL" // Brazilian Real
	BTC Code = "BTC" // Bitcoin
)

// IsValid checks if the currency code is three uppercase letters
func (c Code) IsValid() bool {
	if len(c) != 3 {
		return false
	}
	return c[0] >= 'A' && c[0] <= 'Z' &&
		c[1] >= 'A' && c[1] <= 'Z' &&
		c[2] >= 'A' && c[2] <= 'Z'
}

// String returns the string representation of the currency code.
func (c Code) String() string {
	return string(c)
}
