// Package cache holds the Redis price store shared between server instances.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/paycode/pkg/config"
	"github.com/amirasaad/paycode/pkg/exchange"
	"github.com/redis/go-redis/v9"
)

// DefaultMaxAge bounds how old a shared price may be when read back.
const DefaultMaxAge = 5 * time.Minute

// RedisPriceStore keeps the last good BTC price per currency in Redis.
// It is written through provider.Mirror and read as the last fetcher of the
// provider chain, so an instance whose feed is down can still quote a price
// another instance fetched recently.
type RedisPriceStore struct {
	client *redis.Client
	prefix string
	maxAge time.Duration
	now    func() time.Time
	logger *slog.Logger
}

type storedRate struct {
	Currency  string    `json:"currency"`
	Price     float64   `json:"price"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRedisPriceStore creates a RedisPriceStore from config.
func NewRedisPriceStore(
	cfg *config.Redis,
	maxAge time.Duration,
	logger *slog.Logger,
) (*RedisPriceStore, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if cfg.PoolSize > 0 {
		opt.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeout > 0 {
		opt.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opt.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opt.WriteTimeout = cfg.WriteTimeout
	}
	return NewRedisPriceStoreWithOptions(opt, cfg.KeyPrefix, maxAge, logger), nil
}

// NewRedisPriceStoreWithOptions creates a RedisPriceStore from redis.Options.
func NewRedisPriceStoreWithOptions(
	opt *redis.Options,
	prefix string,
	maxAge time.Duration,
	logger *slog.Logger,
) *RedisPriceStore {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisPriceStore{
		client: redis.NewClient(opt),
		prefix: prefix,
		maxAge: maxAge,
		now:    time.Now,
		logger: logger.With(slog.String("component", "redis_price_store")),
	}
}

func (r *RedisPriceStore) key(currency string) string {
	return r.prefix + strings.ToUpper(currency)
}

// Save stores rate until it is older than the store's max age.
func (r *RedisPriceStore) Save(ctx context.Context, rate exchange.Rate) error {
	if !rate.Valid() {
		return fmt.Errorf("%w: %v", exchange.ErrInvalidPrice, rate.Price)
	}
	ts := rate.Timestamp
	if ts.IsZero() {
		ts = r.now()
	}
	data, err := json.Marshal(storedRate{
		Currency:  strings.ToUpper(rate.Currency),
		Price:     rate.Price,
		Source:    rate.Source,
		Timestamp: ts.UTC(),
	})
	if err != nil {
		r.logger.Error("Redis price marshal error", "currency", rate.Currency, "error", err)
		return err
	}
	if err := r.client.Set(ctx, r.key(rate.Currency), data, r.maxAge).Err(); err != nil {
		r.logger.Error("Redis price set error", "currency", rate.Currency, "error", err)
		return err
	}
	r.logger.Debug("Redis price set", "currency", rate.Currency, "price", rate.Price, "ttl", r.maxAge)
	return nil
}

// FetchPrice returns the shared price for currency.
func (r *RedisPriceStore) FetchPrice(ctx context.Context, currency string) (exchange.Rate, error) {
	val, err := r.client.Get(ctx, r.key(currency)).Result()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis price miss", "currency", currency)
		return exchange.Rate{}, fmt.Errorf("%w: no shared price for %s", exchange.ErrPriceUnavailable, currency)
	}
	if err != nil {
		r.logger.Error("Redis price get error", "currency", currency, "error", err)
		return exchange.Rate{}, fmt.Errorf("%w: %w", exchange.ErrProviderUnavailable, err)
	}

	var s storedRate
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		r.logger.Error("Redis price unmarshal error", "currency", currency, "error", err)
		return exchange.Rate{}, err
	}
	if age := r.now().Sub(s.Timestamp); age > r.maxAge {
		return exchange.Rate{}, fmt.Errorf("%w: shared price for %s is %s old",
			exchange.ErrPriceUnavailable, currency, age.Round(time.Second))
	}

	r.logger.Debug("Redis price hit", "currency", currency, "price", s.Price)
	return exchange.Rate{
		Currency:  s.Currency,
		Price:     s.Price,
		Source:    s.Source,
		Timestamp: s.Timestamp,
	}, nil
}

// Delete removes the shared price for currency.
func (r *RedisPriceStore) Delete(ctx context.Context, currency string) error {
	if err := r.client.Del(ctx, r.key(currency)).Err(); err != nil {
		r.logger.Error("Redis price delete error", "currency", currency, "error", err)
		return err
	}
	return nil
}

// Ping checks the connection.
func (r *RedisPriceStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client.
func (r *RedisPriceStore) Close() error {
	return r.client.Close()
}

// Name returns the provider's name
func (r *RedisPriceStore) Name() string {
	return "redis"
}

var _ exchange.Fetcher = (*RedisPriceStore)(nil)
