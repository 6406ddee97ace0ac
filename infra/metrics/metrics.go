// Package metrics holds the prometheus collectors for the price cache and
// payment code generation.
package metrics

import (
	"time"

	"github.com/amirasaad/paycode/pkg/exchange"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "paycode"

// Metrics groups the collectors registered on one registry.
type Metrics struct {
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	StaleServed    prometheus.Counter
	FetchErrors    *prometheus.CounterVec
	FetchDuration  *prometheus.HistogramVec
	PaymentCodes   *prometheus.CounterVec
	PaymentErrors  *prometheus.CounterVec
	QuoteAgeSecond prometheus.Gauge
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CacheHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_cache_hits_total",
			Help:      "Price lookups served from a fresh cache entry",
		}),
		CacheMisses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_cache_misses_total",
			Help:      "Price lookups that required a feed fetch",
		}),
		StaleServed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_cache_stale_served_total",
			Help:      "Price lookups answered with a stale entry after a failed fetch",
		}),
		FetchErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_cache_fetch_errors_total",
			Help:      "Failed price feed fetches",
		}, []string{"provider"}),
		FetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "price_fetch_duration_seconds",
			Help:      "Duration of price feed fetches in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 11), // 10ms to ~10s
		}, []string{"provider"}),
		PaymentCodes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_codes_total",
			Help:      "Payment codes generated",
		}, []string{"method"}),
		PaymentErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_code_errors_total",
			Help:      "Payment code requests that failed",
		}, []string{"method"}),
		QuoteAgeSecond: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "price_quote_age_seconds",
			Help:      "Age of the last quote handed to a caller",
		}),
	}
}

// CacheHooks adapts the collectors to exchange.Hooks.
func (m *Metrics) CacheHooks() exchange.Hooks {
	return exchange.Hooks{
		OnHit:  func(string) { m.CacheHits.Inc() },
		OnMiss: func(string) { m.CacheMisses.Inc() },
		OnStale: func(_ string, age time.Duration) {
			m.StaleServed.Inc()
			m.QuoteAgeSecond.Set(age.Seconds())
		},
		OnFetch: func(provider, _ string, took time.Duration, err error) {
			m.FetchDuration.WithLabelValues(provider).Observe(took.Seconds())
			if err != nil {
				m.FetchErrors.WithLabelValues(provider).Inc()
			}
		},
	}
}

// PaymentCode records one generation attempt for method.
func (m *Metrics) PaymentCode(method string, err error) {
	if err != nil {
		m.PaymentErrors.WithLabelValues(method).Inc()
		return
	}
	m.PaymentCodes.WithLabelValues(method).Inc()
}
