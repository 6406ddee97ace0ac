// Package testutils builds fully wired Fiber apps for handler tests.
package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/amirasaad/paycode/infra/metrics"
	"github.com/amirasaad/paycode/infra/repository/paymentkey"
	"github.com/amirasaad/paycode/pkg/app"
	"github.com/amirasaad/paycode/pkg/config"
	"github.com/amirasaad/paycode/pkg/exchange"
	"github.com/amirasaad/paycode/pkg/repository"
	"github.com/amirasaad/paycode/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// StaticFetcher serves a fixed price until told to fail.
type StaticFetcher struct {
	mu    sync.Mutex
	price float64
	err   error
	calls int
}

func NewStaticFetcher(price float64) *StaticFetcher {
	return &StaticFetcher{price: price}
}

func (f *StaticFetcher) FetchPrice(_ context.Context, currency string) (exchange.Rate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return exchange.Rate{}, f.err
	}
	return exchange.Rate{Currency: currency, Price: f.price, Source: f.Name(), Timestamp: time.Now().UTC()}, nil
}

func (f *StaticFetcher) Name() string { return "static" }

// Set changes the served price and error.
func (f *StaticFetcher) Set(price float64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.price, f.err = price, err
}

// Calls returns the number of fetches so far.
func (f *StaticFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// TestApp is a wired Fiber app and the pieces tests poke at.
type TestApp struct {
	Fiber    *fiber.App
	App      *app.App
	Fetcher  *StaticFetcher
	Prices   *exchange.Cache
	Registry *prometheus.Registry
	Clock    *Clock
}

// Clock is a settable time source for the price cache.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// TestConfig returns a config with a generous rate limit.
func TestConfig() *config.App {
	return &config.App{
		Env:        "test",
		Server:     &config.Server{Scheme: "http", Host: "localhost", Port: 3000},
		Log:        &config.Log{Format: "text"},
		DB:         &config.DB{},
		Redis:      &config.Redis{},
		PriceFeed:  &config.PriceFeed{},
		PriceCache: &config.PriceCache{TTL: time.Minute, Currencies: []string{"BRL"}},
		RateLimit:  &config.RateLimit{MaxRequests: 1000, Window: time.Second},
	}
}

// NewTestApp wires an app over keys (in-memory when nil) and a static
// BTC price.
func NewTestApp(tb testing.TB, cfg *config.App, keys repository.PaymentKeyRepository, price float64) *TestApp {
	tb.Helper()
	if cfg == nil {
		cfg = TestConfig()
	}
	if keys == nil {
		keys = paymentkey.NewMemory()
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	fetcher := NewStaticFetcher(price)
	clock := &Clock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	prices := exchange.NewCache(fetcher, exchange.Options{
		TTL:   cfg.PriceCache.TTL,
		Now:   clock.Now,
		Hooks: m.CacheHooks(),
	}, logger)

	a := app.New(&app.Deps{
		Keys:     keys,
		Prices:   prices,
		Recorder: m,
		Gatherer: reg,
		Logger:   logger,
	}, cfg)

	return &TestApp{
		Fiber:    webapi.SetupApp(a),
		App:      a,
		Fetcher:  fetcher,
		Prices:   prices,
		Registry: reg,
		Clock:    clock,
	}
}

// MakeRequest is a helper for making HTTP requests in tests
func (a *TestApp) MakeRequest(method, path, body string) *http.Response {
	return MakeRequestWithApp(a.Fiber, method, path, body, nil)
}

// MakeRequestWithApp sends one request through app. headers may be nil.
func MakeRequestWithApp(app *fiber.App, method, path, body string, headers map[string]string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, 10000)
	if err != nil {
		panic(err) // For standalone tests, panic on error
	}
	return resp
}

// Envelope mirrors common.Response with a typed payload.
type Envelope[T any] struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Problem mirrors common.ProblemDetails.
type Problem struct {
	Title  string         `json:"title"`
	Status int            `json:"status"`
	Detail string         `json:"detail"`
	Errors map[string]any `json:"errors"`
}

// DecodeData decodes a success envelope and returns its data.
func DecodeData[T any](tb testing.TB, resp *http.Response) T {
	tb.Helper()
	defer resp.Body.Close() //nolint:errcheck
	var env Envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		tb.Fatalf("decode response: %v", err)
	}
	return env.Data
}

// DecodeProblem decodes a problem details body.
func DecodeProblem(tb testing.TB, resp *http.Response) Problem {
	tb.Helper()
	defer resp.Body.Close() //nolint:errcheck
	var p Problem
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		tb.Fatalf("decode problem: %v", err)
	}
	return p
}
