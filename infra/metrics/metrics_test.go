package metrics_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/paycode/infra/metrics"
	"github.com/amirasaad/paycode/pkg/exchange"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	price float64
	err   error
}

func (s *stubFetcher) FetchPrice(context.Context, string) (exchange.Rate, error) {
	return exchange.Rate{Price: s.price}, s.err
}

func (s *stubFetcher) Name() string { return "stub" }

func TestCacheHooks(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fetcher := &stubFetcher{price: 250000}
	cache := exchange.NewCache(fetcher, exchange.Options{
		Now:   func() time.Time { return now },
		Hooks: m.CacheHooks(),
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx := context.Background()
	_, err := cache.GetPrice(ctx, "BRL")
	require.NoError(t, err)
	_, err = cache.GetPrice(ctx, "BRL")
	require.NoError(t, err)

	fetcher.err = errors.New("down")
	now = now.Add(2 * time.Minute)
	q, err := cache.GetPrice(ctx, "BRL")
	require.NoError(t, err)
	require.True(t, q.IsStale)

	assert.InDelta(t, 1, testutil.ToFloat64(m.CacheHits), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.CacheMisses), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.StaleServed), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.FetchErrors.WithLabelValues("stub")), 0)
	assert.InDelta(t, 120, testutil.ToFloat64(m.QuoteAgeSecond), 0)
}

func TestPaymentCode(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.PaymentCode("pix", nil)
	m.PaymentCode("pix", nil)
	m.PaymentCode("bitcoin", errors.New("no price"))

	assert.InDelta(t, 2, testutil.ToFloat64(m.PaymentCodes.WithLabelValues("pix")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.PaymentCodes.WithLabelValues("bitcoin")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.PaymentErrors.WithLabelValues("bitcoin")), 0)
}

func TestNew_PanicsOnDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg)
	assert.Panics(t, func() { metrics.New(reg) })
}
