package exchange

import (
	"context"
	"log/slog"
	"time"
)

// DefaultPollInterval matches the checkout screen's re-poll period.
const DefaultPollInterval = 60 * time.Second

// Poller keeps quotes warm by calling GetPrice on an interval.
// Each poll runs the full cache policy, so a feed outage heals on the first
// successful poll after the feed recovers.
type Poller struct {
	cache      *Cache
	currencies []string
	interval   time.Duration
	logger     *slog.Logger
}

// NewPoller creates a poller for currencies.
func NewPoller(cache *Cache, currencies []string, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cache:      cache,
		currencies: currencies,
		interval:   interval,
		logger:     logger.With(slog.String("component", "price_poller")),
	}
}

// Run polls immediately and then every interval until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("price poller stopped")
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	for _, cur := range p.currencies {
		q, err := p.cache.GetPrice(ctx, cur)
		if err != nil {
			p.logger.Warn("price poll failed", "currency", cur, "error", err)
			continue
		}
		if q.IsStale {
			p.logger.Warn("price is stale", "currency", cur, "age", q.Age)
		}
	}
}
