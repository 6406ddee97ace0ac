package common

import (
	"fmt"
	"time"

	"github.com/amirasaad/paycode/pkg/exchange"
	"github.com/amirasaad/paycode/pkg/payment"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// QuoteResponse is a BTC quote with its freshness.
type QuoteResponse struct {
	Currency   string    `json:"currency"`
	Price      float64   `json:"price"`
	Source     string    `json:"source"`
	Timestamp  time.Time `json:"timestamp"`
	IsStale    bool      `json:"is_stale"`
	AgeSeconds float64   `json:"age_seconds"`
}

// ToQuoteResponse converts a cache quote to its response DTO.
func ToQuoteResponse(q exchange.Quote) *QuoteResponse {
	return &QuoteResponse{
		Currency:   q.Currency,
		Price:      q.Price,
		Source:     q.Source,
		Timestamp:  q.Timestamp,
		IsStale:    q.IsStale,
		AgeSeconds: q.Age.Seconds(),
	}
}

// ParseID reads a UUID route parameter.
func ParseID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s is not a valid id", payment.ErrInvalidInput, name)
	}
	return id, nil
}
