// Package app wires the checkout service to its dependencies.
package app

import (
	"errors"
	"log/slog"

	"github.com/amirasaad/paycode/pkg/config"
	"github.com/amirasaad/paycode/pkg/exchange"
	"github.com/amirasaad/paycode/pkg/repository"
	"github.com/amirasaad/paycode/pkg/service/checkout"
	"github.com/prometheus/client_golang/prometheus"
)

// Deps contains all the dependencies needed by the App
type Deps struct {
	Keys     repository.PaymentKeyRepository
	Prices   checkout.PriceSource
	Poller   *exchange.Poller
	Recorder checkout.Recorder
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
	// Closers release connections in reverse order on shutdown.
	Closers []func() error
}

type App struct {
	Deps            *Deps
	Config          *config.App
	CheckoutService *checkout.Service
}

func New(deps *Deps, cfg *config.App) *App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &App{
		Deps:            deps,
		Config:          cfg,
		CheckoutService: checkout.New(deps.Keys, deps.Prices, deps.Recorder, deps.Logger),
	}
}

// Close runs the dependency closers and joins their errors.
func (a *App) Close() error {
	var errs []error
	for i := len(a.Deps.Closers) - 1; i >= 0; i-- {
		if err := a.Deps.Closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
