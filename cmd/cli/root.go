package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/amirasaad/paycode/infra/initializer"
	"github.com/amirasaad/paycode/infra/provider"
	"github.com/amirasaad/paycode/pkg/config"
	"github.com/amirasaad/paycode/pkg/exchange"
	"github.com/amirasaad/paycode/pkg/money"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	labelColor   = color.New(color.FgCyan, color.Bold)
	payloadColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
)

type options struct {
	envFile string
	feedURL string
	noColor bool
	verbose bool
}

// newRootCmd returns the root command for the paycode CLI
func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "paycode",
		Short:         "Encode PIX and Bitcoin payment codes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
			if !opts.verbose {
				slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file",
		config.GetEnv("PAYCODE_ENV_FILE", ".env"), "environment file to load")
	rootCmd.PersistentFlags().StringVar(&opts.feedURL, "feed-url", "", "price feed base URL (overrides PRICE_FEED_URL)")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color",
		config.GetEnvAsBool("PAYCODE_NO_COLOR", false), "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log price feed requests to stderr")

	rootCmd.AddCommand(newPixCmd())
	rootCmd.AddCommand(newVerifyCmd())
	rootCmd.AddCommand(newBitcoinCmd(opts))
	rootCmd.AddCommand(newPriceCmd(opts))
	return rootCmd
}

// parseAmount reads a BRL amount, rejecting negatives.
func parseAmount(s string) (money.Amount, error) {
	if strings.HasPrefix(strings.TrimSpace(s), "-") {
		return money.Zero, fmt.Errorf("%w: %q must not be negative", money.ErrInvalidAmount, s)
	}
	return money.Parse(s)
}

// quote fetches one BTC quote through the configured price feed.
func quote(cmd *cobra.Command, opts *options, currency string) (exchange.Quote, error) {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return exchange.Quote{}, err
	}
	if opts.feedURL != "" {
		cfg.PriceFeed.URL = opts.feedURL
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.verbose {
		logger = initializer.NewLogger(&config.Log{
			Format:     "text",
			TimeFormat: cfg.Log.TimeFormat,
			Level:      cfg.Log.Level,
			Prefix:     cfg.Log.Prefix,
		}, cmd.ErrOrStderr())
	}

	prices := exchange.NewCache(
		provider.NewPriceFeedProvider(cfg.PriceFeed, logger),
		exchange.Options{TTL: cfg.PriceCache.TTL, FetchTimeout: cfg.PriceCache.FetchTimeout},
		logger,
	)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return prices.GetPrice(ctx, currency)
}

func printField(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "%s %v\n", labelColor.Sprintf("%-8s", label+":"), value)
}
