package exchange

import (
	"context"
	"math"
	"time"
)

// Rate is the price of one BTC in a fiat currency.
type Rate struct {
	Currency  string    `json:"currency"`
	Price     float64   `json:"price"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// Valid reports whether the price is positive and finite.
func (r Rate) Valid() bool {
	return r.Price > 0 && !math.IsInf(r.Price, 1)
}

// Quote is a rate served by the cache together with its freshness.
type Quote struct {
	Rate
	IsStale bool          `json:"is_stale"`
	Age     time.Duration `json:"age"`
}

// Fetcher fetches the current BTC price in a currency from a price feed.
type Fetcher interface {
	FetchPrice(ctx context.Context, currency string) (Rate, error)
	Name() string
}
