// Package provider holds the exchange.Fetcher implementations: the HTTP price
// feed, an ordered fallback chain and a mirroring decorator.
package provider

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/amirasaad/paycode/pkg/exchange"
)

// Chain asks each fetcher in order and returns the first valid price.
type Chain struct {
	fetchers []exchange.Fetcher
	logger   *slog.Logger
}

// NewChain creates a fetcher that falls back through fetchers in order.
func NewChain(logger *slog.Logger, fetchers ...exchange.Fetcher) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{fetchers: fetchers, logger: logger}
}

func (c *Chain) FetchPrice(ctx context.Context, currency string) (exchange.Rate, error) {
	if len(c.fetchers) == 0 {
		return exchange.Rate{}, exchange.ErrProviderUnavailable
	}

	var errs []error
	for _, f := range c.fetchers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		rate, err := f.FetchPrice(ctx, currency)
		if err == nil && !rate.Valid() {
			err = exchange.ErrInvalidPrice
		}
		if err != nil {
			c.logger.Warn("Price provider failed, trying next",
				"provider", f.Name(),
				"currency", currency,
				"error", err,
			)
			errs = append(errs, &exchange.ProviderError{Provider: f.Name(), Err: err})
			continue
		}
		if rate.Source == "" {
			rate.Source = f.Name()
		}
		return rate, nil
	}
	return exchange.Rate{}, errors.Join(errs...)
}

// Name lists the chained providers.
func (c *Chain) Name() string {
	names := make([]string, 0, len(c.fetchers))
	for _, f := range c.fetchers {
		names = append(names, f.Name())
	}
	return strings.Join(names, ">")
}

// PriceSink receives every successfully fetched rate.
type PriceSink interface {
	Save(ctx context.Context, rate exchange.Rate) error
}

// Mirror decorates a fetcher and copies each good rate to a sink.
// Sink failures are logged and never fail the fetch.
type Mirror struct {
	exchange.Fetcher
	sink   PriceSink
	logger *slog.Logger
}

// NewMirror wraps fetcher so successful fetches are written to sink.
func NewMirror(fetcher exchange.Fetcher, sink PriceSink, logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mirror{Fetcher: fetcher, sink: sink, logger: logger}
}

func (m *Mirror) FetchPrice(ctx context.Context, currency string) (exchange.Rate, error) {
	rate, err := m.Fetcher.FetchPrice(ctx, currency)
	if err != nil || !rate.Valid() {
		return rate, err
	}
	if rate.Source == "" {
		rate.Source = m.Fetcher.Name()
	}
	if err := m.sink.Save(ctx, rate); err != nil {
		m.logger.Warn("Failed to mirror price", "currency", currency, "error", err)
	}
	return rate, nil
}

var (
	_ exchange.Fetcher = (*Chain)(nil)
	_ exchange.Fetcher = (*Mirror)(nil)
)
