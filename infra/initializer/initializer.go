// Package initializer builds the application dependencies from config.
package initializer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/paycode/infra"
	"github.com/amirasaad/paycode/infra/cache"
	"github.com/amirasaad/paycode/infra/metrics"
	"github.com/amirasaad/paycode/infra/provider"
	"github.com/amirasaad/paycode/infra/repository/paymentkey"
	"github.com/amirasaad/paycode/pkg/app"
	"github.com/amirasaad/paycode/pkg/config"
	"github.com/amirasaad/paycode/pkg/exchange"
	"github.com/amirasaad/paycode/pkg/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(cfg *config.App) (
	deps *app.Deps,
	err error,
) {
	deps = &app.Deps{}
	logger := setupLogger(cfg.Log)
	deps.Logger = logger

	// Metrics registry
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)
	deps.Recorder = m
	deps.Gatherer = reg

	// Key storage
	deps.Keys, err = newKeyRepository(cfg, deps, logger)
	if err != nil {
		return nil, err
	}

	// Price feed
	fetcher, err := newPriceFetcher(cfg, deps, logger)
	if err != nil {
		return nil, err
	}

	prices := exchange.NewCache(fetcher, exchange.Options{
		TTL:          cfg.PriceCache.TTL,
		FetchTimeout: cfg.PriceCache.FetchTimeout,
		Hooks:        m.CacheHooks(),
	}, logger)
	deps.Prices = prices
	deps.Poller = exchange.NewPoller(prices, cfg.PriceCache.Currencies, cfg.PriceCache.PollInterval, logger)

	warmPrices(prices, cfg.PriceCache, logger)
	return deps, nil
}

func newKeyRepository(cfg *config.App, deps *app.Deps, logger *slog.Logger) (repository.PaymentKeyRepository, error) {
	if cfg.DB == nil || cfg.DB.Url == "" {
		logger.Warn("DATABASE_URL is not set, payment keys are kept in memory")
		return paymentkey.NewMemory(), nil
	}

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}
	if err := paymentkey.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate payment keys: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	deps.Closers = append(deps.Closers, sqlDB.Close)
	return paymentkey.New(db), nil
}

// newPriceFetcher returns the feed, backed by the shared Redis price when
// REDIS_URL is set.
func newPriceFetcher(cfg *config.App, deps *app.Deps, logger *slog.Logger) (exchange.Fetcher, error) {
	feed := provider.NewPriceFeedProvider(cfg.PriceFeed, logger)
	if cfg.Redis == nil || cfg.Redis.URL == "" {
		return feed, nil
	}

	store, err := cache.NewRedisPriceStore(cfg.Redis, cfg.PriceFeed.SharedMaxAge, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis price store: %w", err)
	}
	deps.Closers = append(deps.Closers, store.Close)

	var primary exchange.Fetcher = feed
	if cfg.PriceFeed.Mirror {
		primary = provider.NewMirror(feed, store, logger)
	}
	return provider.NewChain(logger, primary, store), nil
}

// warmPrices fills the cache during startup. Failures are logged only; the
// poller retries on its next tick.
func warmPrices(prices *exchange.Cache, cfg *config.PriceCache, logger *slog.Logger) {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = exchange.DefaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, currency := range cfg.Currencies {
		q, err := prices.GetPrice(ctx, currency)
		if err != nil {
			logger.Error("Failed to warm price cache", "currency", currency, "error", err)
			continue
		}
		logger.Info("Price cache warmed", "currency", q.Currency, "price", q.Price, "provider", q.Source)
	}
}
