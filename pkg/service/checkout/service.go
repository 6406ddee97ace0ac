// Package checkout generates the payment codes shown at the POS checkout
// screen from the configured receiving keys.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/paycode/pkg/domain/paymentkey"
	"github.com/amirasaad/paycode/pkg/exchange"
	"github.com/amirasaad/paycode/pkg/money"
	"github.com/amirasaad/paycode/pkg/payment"
	"github.com/amirasaad/paycode/pkg/payment/bitcoin"
	"github.com/amirasaad/paycode/pkg/payment/pix"
	"github.com/amirasaad/paycode/pkg/repository"
	"github.com/google/uuid"
)

// PriceSource yields BTC quotes, normally an *exchange.Cache.
type PriceSource interface {
	GetPrice(ctx context.Context, currency string) (exchange.Quote, error)
}

// Recorder counts generated codes, normally *metrics.Metrics.
type Recorder interface {
	PaymentCode(method string, err error)
}

// PaymentCode is a generated payload ready to be rendered as a QR code.
type PaymentCode struct {
	Method    payment.Method  `json:"method"`
	KeyID     uuid.UUID       `json:"key_id"`
	Payload   string          `json:"payload"`
	Amount    money.Amount    `json:"amount"`
	BTCAmount float64         `json:"btc_amount,omitempty"`
	Quote     *exchange.Quote `json:"quote,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Service provides the checkout operations
type Service struct {
	keys     repository.PaymentKeyRepository
	prices   PriceSource
	recorder Recorder
	logger   *slog.Logger
}

// New creates a new checkout service. recorder may be nil.
func New(
	keys repository.PaymentKeyRepository,
	prices PriceSource,
	recorder Recorder,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		keys:     keys,
		prices:   prices,
		recorder: recorder,
		logger:   logger.With(slog.String("service", "checkout")),
	}
}

// PixCode builds a PIX BR Code for amount using the key keyID.
// uuid.Nil selects the newest active PIX key.
func (s *Service) PixCode(ctx context.Context, keyID uuid.UUID, amount money.Amount) (code *PaymentCode, err error) {
	defer s.record(payment.MethodPix, &err)

	key, err := s.pixKey(ctx, keyID)
	if err != nil {
		return nil, err
	}
	payload, err := pix.EncodeKey(key, amount)
	if err != nil {
		return nil, err
	}

	s.logger.Info("PIX code generated", "key_id", key.ID, "amount", amount.String())
	return &PaymentCode{
		Method:    payment.MethodPix,
		KeyID:     key.ID,
		Payload:   payload,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// BitcoinCode builds a bitcoin: or lightning: URI for amount using the key
// keyID and the current BRL quote. uuid.Nil selects the newest active key.
// A stale quote is used as is and reported on the result.
func (s *Service) BitcoinCode(ctx context.Context, keyID uuid.UUID, amount money.Amount) (code *PaymentCode, err error) {
	defer s.record(payment.MethodBitcoin, &err)

	key, err := s.bitcoinKey(ctx, keyID)
	if err != nil {
		return nil, err
	}

	quote, err := s.prices.GetPrice(ctx, money.BRL.String())
	if err != nil {
		return nil, fmt.Errorf("quote BRL: %w", err)
	}
	if quote.IsStale {
		s.logger.Warn("Generating bitcoin code from a stale quote", "age", quote.Age, "price", quote.Price)
	}

	btc, err := bitcoin.CalculateAmount(amount, quote.Rate)
	if err != nil {
		return nil, err
	}
	uri, err := bitcoin.EncodeKey(key, amount, quote.Rate)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Bitcoin code generated",
		"key_id", key.ID,
		"network", key.Network,
		"amount", amount.String(),
		"btc", btc,
		"stale", quote.IsStale,
	)
	return &PaymentCode{
		Method:    payment.MethodBitcoin,
		KeyID:     key.ID,
		Payload:   uri,
		Amount:    amount,
		BTCAmount: btc,
		Quote:     &quote,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Quote returns the BTC quote in currency.
func (s *Service) Quote(ctx context.Context, currency string) (exchange.Quote, error) {
	return s.prices.GetPrice(ctx, currency)
}

func (s *Service) pixKey(ctx context.Context, id uuid.UUID) (*paymentkey.PixKey, error) {
	if id == uuid.Nil {
		keys, err := s.keys.ListPix(ctx, true)
		if err != nil {
			return nil, err
		}
		if len(keys) == 0 {
			return nil, fmt.Errorf("%w: no active PIX key", paymentkey.ErrKeyNotFound)
		}
		return keys[0], nil
	}
	key, err := s.keys.GetPix(ctx, id)
	if err != nil {
		return nil, err
	}
	if !key.IsActive {
		return nil, paymentkey.ErrKeyInactive
	}
	return key, nil
}

func (s *Service) bitcoinKey(ctx context.Context, id uuid.UUID) (*paymentkey.BitcoinKey, error) {
	if id == uuid.Nil {
		keys, err := s.keys.ListBitcoin(ctx, true)
		if err != nil {
			return nil, err
		}
		if len(keys) == 0 {
			return nil, fmt.Errorf("%w: no active Bitcoin key", paymentkey.ErrKeyNotFound)
		}
		return keys[0], nil
	}
	key, err := s.keys.GetBitcoin(ctx, id)
	if err != nil {
		return nil, err
	}
	if !key.IsActive {
		return nil, paymentkey.ErrKeyInactive
	}
	return key, nil
}

func (s *Service) record(method payment.Method, err *error) {
	if *err != nil {
		s.logger.Warn("Payment code failed", "method", method, "error", *err)
	}
	if s.recorder != nil {
		s.recorder.PaymentCode(string(method), *err)
	}
}
