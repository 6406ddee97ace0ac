package config

import (
	"time"
)

type DB struct {
	Url string `envconfig:"URL"`
}

type Redis struct {
	URL          string        `envconfig:"URL" default:""`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:"paycode:price:"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// PriceFeed configures the upstream BTC price API.
type PriceFeed struct {
	URL         string        `envconfig:"URL" default:"https://api.coingecko.com/api/v3"`
	APIKey      string        `envconfig:"API_KEY"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	// Mirror writes every successful fetch to Redis so other instances can
	// fall back to it.
	Mirror       bool          `envconfig:"MIRROR" default:"true"`
	SharedMaxAge time.Duration `envconfig:"SHARED_MAX_AGE" default:"5m"`
}

type PriceCache struct {
	TTL          time.Duration `envconfig:"TTL" default:"60s"`
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"10s"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"60s"`
	Currencies   []string      `envconfig:"CURRENCIES" default:"BRL"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[paycode]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env        string      `envconfig:"APP_ENV" default:"development"`
	Server     *Server     `envconfig:"SERVER"`
	Log        *Log        `envconfig:"LOG"`
	DB         *DB         `envconfig:"DATABASE"`
	Redis      *Redis      `envconfig:"REDIS"`
	PriceFeed  *PriceFeed  `envconfig:"PRICE_FEED"`
	PriceCache *PriceCache `envconfig:"PRICE_CACHE"`
	RateLimit  *RateLimit  `envconfig:"RATE_LIMIT"`
}
