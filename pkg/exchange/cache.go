// Package exchange serves BTC prices to the payment encoders.
//
// The Cache keeps one entry per currency. An entry fetched within the TTL is
// served without a fetch; otherwise the feed is asked once, and on any failure
// the last good entry is served as stale. Only when no entry was ever stored
// does a failure reach the caller, as ErrPriceUnavailable.
//
// A quote's age counts from the price's own timestamp, so a price the feed
// already reports as old is served stale even right after a fetch.
package exchange

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultTTL is how long a fetched price is served without refetching.
	DefaultTTL = 60 * time.Second

	// DefaultFetchTimeout bounds a single feed request.
	DefaultFetchTimeout = 10 * time.Second
)

// Options configures a Cache. Zero values select the defaults.
type Options struct {
	TTL          time.Duration
	FetchTimeout time.Duration
	Now          func() time.Time
	Hooks        Hooks
}

// Hooks observe cache outcomes, typically to feed metrics.
type Hooks struct {
	OnHit   func(currency string)
	OnMiss  func(currency string)
	OnStale func(currency string, age time.Duration)
	OnFetch func(provider, currency string, took time.Duration, err error)
}

type entry struct {
	rate      Rate
	fetchedAt time.Time
}

// Cache is a TTL cache of BTC prices with stale fallback.
type Cache struct {
	fetcher Fetcher
	opts    Options
	logger  *slog.Logger

	mu    sync.RWMutex
	store map[string]entry
	sf    singleflight.Group
}

// NewCache creates a cache in front of fetcher.
func NewCache(fetcher Fetcher, opts Options, logger *slog.Logger) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Cache{
		fetcher: fetcher,
		opts:    opts,
		logger:  logger.With(slog.String("component", "price_cache")),
		store:   make(map[string]entry),
	}
}

// TTL returns the freshness window.
func (c *Cache) TTL() time.Duration {
	return c.opts.TTL
}

// GetPrice returns the BTC price in currency.
// Concurrent misses for the same currency share one fetch.
func (c *Cache) GetPrice(ctx context.Context, currency string) (Quote, error) {
	key, err := normalizeCurrency(currency)
	if err != nil {
		return Quote{}, err
	}

	now := c.opts.Now()
	if e, ok := c.lookup(key); ok && now.Sub(e.fetchedAt) < c.opts.TTL {
		q := c.quote(e, now)
		c.logger.Debug("price cache hit", "currency", key, "age", q.Age)
		if c.opts.Hooks.OnHit != nil {
			c.opts.Hooks.OnHit(key)
		}
		c.reportStale(key, q, nil)
		return q, nil
	}

	if c.opts.Hooks.OnMiss != nil {
		c.opts.Hooks.OnMiss(key)
	}

	fetched, fetchErr := c.fetch(ctx, key)
	if fetchErr == nil {
		q := c.quote(fetched, c.opts.Now())
		c.reportStale(key, q, nil)
		return q, nil
	}

	if e, ok := c.lookup(key); ok {
		q := c.quote(e, c.opts.Now())
		c.reportStale(key, q, fetchErr)
		return q, nil
	}

	c.logger.Error("no price available", "currency", key, "error", fetchErr)
	return Quote{}, fmt.Errorf("%w for %s: %w", ErrPriceUnavailable, key, fetchErr)
}

// fetch joins the shared refresh for key. The refresh runs detached from ctx
// and is bounded by FetchTimeout; each caller stops waiting when its own ctx
// ends.
func (c *Cache) fetch(ctx context.Context, key string) (entry, error) {
	if err := ctx.Err(); err != nil {
		return entry{}, err
	}
	detached := context.WithoutCancel(ctx)
	ch := c.sf.DoChan(key, func() (any, error) {
		return c.refresh(detached, key)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return entry{}, res.Err
		}
		return res.Val.(entry), nil
	case <-ctx.Done():
		return entry{}, ctx.Err()
	}
}

// quote reports e as seen at now. Age counts from the price timestamp.
func (c *Cache) quote(e entry, now time.Time) Quote {
	age := max(now.Sub(e.rate.Timestamp), 0)
	return Quote{Rate: e.rate, IsStale: age >= c.opts.TTL, Age: age}
}

func (c *Cache) reportStale(key string, q Quote, cause error) {
	if !q.IsStale {
		return
	}
	c.logger.Warn("serving stale price",
		"currency", key,
		"age", q.Age,
		"source", q.Source,
		"error", cause,
	)
	if c.opts.Hooks.OnStale != nil {
		c.opts.Hooks.OnStale(key, q.Age)
	}
}

// Peek returns the cached quote for currency without fetching.
func (c *Cache) Peek(currency string) (Quote, bool) {
	key, err := normalizeCurrency(currency)
	if err != nil {
		return Quote{}, false
	}
	e, ok := c.lookup(key)
	if !ok {
		return Quote{}, false
	}
	return c.quote(e, c.opts.Now()), true
}

// refresh fetches a price and stores it only when it is valid and the fetch
// completed before ctx ended. The price keeps its own timestamp unless it is
// missing or ahead of the clock.
func (c *Cache) refresh(ctx context.Context, key string) (entry, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.FetchTimeout)
	defer cancel()

	start := time.Now()
	rate, err := c.fetcher.FetchPrice(ctx, key)
	if err == nil && !rate.Valid() {
		err = fmt.Errorf("%w: %v", ErrInvalidPrice, rate.Price)
	}
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if c.opts.Hooks.OnFetch != nil {
		c.opts.Hooks.OnFetch(c.fetcher.Name(), key, time.Since(start), err)
	}
	if err != nil {
		c.logger.Warn("price fetch failed",
			"currency", key,
			"provider", c.fetcher.Name(),
			"error", err,
		)
		return entry{}, &ProviderError{Provider: c.fetcher.Name(), Err: err}
	}

	now := c.opts.Now()
	rate.Currency = key
	if rate.Timestamp.IsZero() || rate.Timestamp.After(now) {
		rate.Timestamp = now
	}
	if rate.Source == "" {
		rate.Source = c.fetcher.Name()
	}

	e := entry{rate: rate, fetchedAt: now}
	c.mu.Lock()
	c.store[key] = e
	c.mu.Unlock()

	c.logger.Debug("price cached", "currency", key, "price", rate.Price, "source", rate.Source)
	return e, nil
}

func (c *Cache) lookup(key string) (entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.store[key]
	return e, ok
}

// normalizeCurrency upper-cases a currency code for use as a cache key.
func normalizeCurrency(currency string) (string, error) {
	key := strings.ToUpper(strings.TrimSpace(currency))
	if key == "" {
		return "", fmt.Errorf("%w: empty currency code", ErrInvalidCurrency)
	}
	return key, nil
}
