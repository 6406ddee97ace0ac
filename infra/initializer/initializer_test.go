package initializer

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirasaad/paycode/infra/repository/paymentkey"
	"github.com/amirasaad/paycode/pkg/config"
	"github.com/amirasaad/paycode/pkg/exchange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(feedURL string) *config.App {
	return &config.App{
		Env:   "test",
		Log:   &config.Log{Format: "text", TimeFormat: time.Kitchen, Prefix: "[test]"},
		DB:    &config.DB{},
		Redis: &config.Redis{},
		PriceFeed: &config.PriceFeed{
			URL:          feedURL,
			HTTPTimeout:  time.Second,
			SharedMaxAge: time.Minute,
		},
		PriceCache: &config.PriceCache{
			TTL:          time.Minute,
			FetchTimeout: time.Second,
			PollInterval: time.Minute,
			Currencies:   []string{"BRL"},
		},
		RateLimit: &config.RateLimit{MaxRequests: 10, Window: time.Second},
	}
}

func TestInitializeDependencies_InMemory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"bitcoin":{"brl":350000}}`))
	}))
	defer srv.Close()

	deps, err := InitializeDependencies(testConfig(srv.URL))
	require.NoError(t, err)

	assert.IsType(t, &paymentkey.MemoryRepository{}, deps.Keys)
	assert.NotNil(t, deps.Poller)
	assert.NotNil(t, deps.Recorder)
	assert.Empty(t, deps.Closers)

	prices, ok := deps.Prices.(*exchange.Cache)
	require.True(t, ok)
	q, ok := prices.Peek("BRL")
	require.True(t, ok, "startup should warm the cache")
	assert.InDelta(t, 350000.0, q.Price, 0)

	families, err := deps.Gatherer.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "paycode_price_cache_misses_total")
}

func TestInitializeDependencies_FeedDownStillStarts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	deps, err := InitializeDependencies(testConfig(srv.URL))
	require.NoError(t, err)
	_, ok := deps.Prices.(*exchange.Cache).Peek("BRL")
	assert.False(t, ok)
}

func TestInitializeDependencies_InvalidRedisURL(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Redis.URL = "not a url"

	_, err := InitializeDependencies(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Redis price store")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&config.Log{Format: "json", Prefix: "[test]"}, &buf)
	logger.Info("Price cache warmed", "currency", "BRL")
	assert.Contains(t, buf.String(), `"currency":"BRL"`)
	assert.Contains(t, buf.String(), "Price cache warmed")

	buf.Reset()
	NewLogger(nil, &buf).Warn("stale")
	assert.Contains(t, buf.String(), "stale")
}
