package paymentkey

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// ErrInvalidAddress is returned when an address does not belong to its network.
var ErrInvalidAddress = errors.New("invalid bitcoin address")

// bolt11Prefixes are the human-readable parts of BOLT11 invoices, longest first.
var bolt11Prefixes = []string{"lnbcrt", "lntbs", "lnbc", "lntb"}

// ValidateAddress checks address against network.
// Chain addresses are decoded for the network's parameters; Lightning
// identifiers must be a BOLT11 invoice, an LNURL or a lightning address.
func ValidateAddress(address string, network Network) error {
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}

	switch network {
	case NetworkMainnet:
		return decodeFor(address, &chaincfg.MainNetParams)
	case NetworkTestnet:
		return decodeFor(address, &chaincfg.TestNet3Params)
	case NetworkLightning:
		return validateLightning(address)
	default:
		return fmt.Errorf("%w: unknown network %q", ErrInvalidAddress, network)
	}
}

func decodeFor(address string, params *chaincfg.Params) error {
	addr, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if !addr.IsForNet(params) {
		return fmt.Errorf("%w: %s is not a %s address", ErrInvalidAddress, address, params.Name)
	}
	return nil
}

func validateLightning(address string) error {
	lower := strings.ToLower(address)
	for _, p := range bolt11Prefixes {
		if strings.HasPrefix(lower, p) && len(lower) > len(p) {
			return nil
		}
	}
	if strings.HasPrefix(lower, "lnurl") && len(lower) > len("lnurl") {
		return nil
	}
	if err := validate.Var(address, "email"); err == nil {
		return nil
	}
	return fmt.Errorf("%w: %q is not a lightning invoice or address", ErrInvalidAddress, address)
}
