// Package bitcoin builds BIP21-style payment URIs for on-chain and Lightning
// payments, converting a BRL amount with a live exchange rate.
package bitcoin

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/amirasaad/paycode/pkg/domain/paymentkey"
	"github.com/amirasaad/paycode/pkg/exchange"
	"github.com/amirasaad/paycode/pkg/money"
	"github.com/amirasaad/paycode/pkg/payment"
)

// SatoshisPerBTC is the number of satoshis in one bitcoin.
const SatoshisPerBTC = 100_000_000

// URI schemes.
const (
	SchemeBitcoin   = "bitcoin"
	SchemeLightning = "lightning"
)

// CalculateAmount converts fiat to BTC at rate.
func CalculateAmount(fiat money.Amount, rate exchange.Rate) (float64, error) {
	if err := checkRate(rate); err != nil {
		return 0, err
	}
	return fiat.Float64() / rate.Price, nil
}

// SatoshisToBTC divides by 10^8 without rounding.
func SatoshisToBTC(sats int64) float64 {
	return float64(sats) / SatoshisPerBTC
}

// BTCToSatoshis rounds to the nearest satoshi.
func BTCToSatoshis(btc float64) int64 {
	return int64(math.Round(btc * SatoshisPerBTC))
}

// Encode returns the payment URI for address.
// Mainnet and testnet share the bitcoin: scheme with an 8-decimal BTC amount;
// Lightning uses the lightning: scheme with whole satoshis (floored).
func Encode(address string, fiat money.Amount, rate exchange.Rate, network paymentkey.Network) (string, error) {
	if strings.TrimSpace(address) == "" {
		return "", fmt.Errorf("%w: bitcoin address is empty", payment.ErrInvalidInput)
	}
	btc, err := CalculateAmount(fiat, rate)
	if err != nil {
		return "", err
	}

	switch network {
	case paymentkey.NetworkMainnet, paymentkey.NetworkTestnet:
		return SchemeBitcoin + ":" + address + "?amount=" + strconv.FormatFloat(btc, 'f', 8, 64), nil
	case paymentkey.NetworkLightning:
		sats := int64(math.Floor(btc * SatoshisPerBTC))
		return SchemeLightning + ":" + address + "?amount=" + strconv.FormatInt(sats, 10), nil
	default:
		return "", fmt.Errorf("%w: unknown network %q", payment.ErrInvalidInput, network)
	}
}

// EncodeKey encodes the URI for a configured Bitcoin key record.
func EncodeKey(k *paymentkey.BitcoinKey, fiat money.Amount, rate exchange.Rate) (string, error) {
	if k == nil {
		return "", fmt.Errorf("%w: bitcoin key record is nil", payment.ErrInvalidInput)
	}
	return Encode(k.Address, fiat, rate, k.Network)
}

func checkRate(rate exchange.Rate) error {
	if !rate.Valid() {
		return fmt.Errorf("%w: exchange rate %v must be positive", payment.ErrInvalidInput, rate.Price)
	}
	return nil
}
