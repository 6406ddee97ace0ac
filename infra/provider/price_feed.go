package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amirasaad/paycode/pkg/config"
	"github.com/amirasaad/paycode/pkg/exchange"
)

// PriceFeedProvider fetches the BTC spot price from a CoinGecko style
// simple price API.
type PriceFeedProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// SimplePriceResponse is the body of GET /simple/price.
// Example: {"bitcoin":{"brl":352104.12,"last_updated_at":1760000000}}
type SimplePriceResponse map[string]map[string]float64

const coinID = "bitcoin"

// NewPriceFeedProvider creates a price feed provider using config
func NewPriceFeedProvider(cfg *config.PriceFeed, logger *slog.Logger) *PriceFeedProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &PriceFeedProvider{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.URL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger: logger.With(slog.String("provider", "price_feed")),
	}
}

// FetchPrice returns the price of one BTC in currency.
func (p *PriceFeedProvider) FetchPrice(ctx context.Context, currency string) (exchange.Rate, error) {
	vs := strings.ToLower(currency)
	q := url.Values{}
	q.Set("ids", coinID)
	q.Set("vs_currencies", vs)
	q.Set("include_last_updated_at", "true")
	endpoint := fmt.Sprintf("%s/simple/price?%s", p.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return exchange.Rate{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return exchange.Rate{}, fmt.Errorf("%w: %w", exchange.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return exchange.Rate{}, fmt.Errorf("%w: API returned status %d: %s",
			exchange.ErrProviderUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var apiResp SimplePriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return exchange.Rate{}, fmt.Errorf("failed to decode response: %w", err)
	}

	prices, ok := apiResp[coinID]
	if !ok {
		return exchange.Rate{}, fmt.Errorf("%s not found in response", coinID)
	}
	price, ok := prices[vs]
	if !ok {
		return exchange.Rate{}, fmt.Errorf("%w: %s not found in response", exchange.ErrInvalidCurrency, currency)
	}

	rate := exchange.Rate{
		Currency: strings.ToUpper(currency),
		Price:    price,
		Source:   p.Name(),
	}
	if ts, ok := prices["last_updated_at"]; ok && ts > 0 {
		rate.Timestamp = time.Unix(int64(ts), 0).UTC()
	}
	p.logger.Debug("Fetched BTC price", "currency", rate.Currency, "price", price)
	return rate, nil
}

// Name returns the provider's name
func (p *PriceFeedProvider) Name() string {
	return "coingecko"
}

var _ exchange.Fetcher = (*PriceFeedProvider)(nil)
