package encode

import (
	"github.com/amirasaad/paycode/pkg/domain/paymentkey"
	"github.com/shopspring/decimal"
)

// PixRequest encodes a PIX BR Code for an arbitrary key.
type PixRequest struct {
	Key    string          `json:"key" validate:"required,max=85"`
	Amount decimal.Decimal `json:"amount"`
}

// BitcoinRequest encodes a payment URI for an arbitrary address.
// A zero price quotes the cached BRL rate.
type BitcoinRequest struct {
	Address string             `json:"address" validate:"required"`
	Network paymentkey.Network `json:"network" validate:"required,oneof=mainnet testnet lightning"`
	Amount  decimal.Decimal    `json:"amount"`
	Price   decimal.Decimal    `json:"price"`
}

// VerifyRequest checks the CRC of a PIX payload.
type VerifyRequest struct {
	Payload string `json:"payload" validate:"required"`
}

// PayloadResponse carries an encoded payload.
type PayloadResponse struct {
	Payload   string `json:"payload"`
	Amount    string `json:"amount"`
	BTCAmount string `json:"btc_amount,omitempty"`
	Price     string `json:"price,omitempty"`
	IsStale   bool   `json:"is_stale,omitempty"`
}

// VerifyResponse reports whether a payload's CRC matches.
type VerifyResponse struct {
	Valid bool `json:"valid"`
}
