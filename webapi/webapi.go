// Package webapi provides the HTTP API for the POS checkout screen.
// It is organized into sub-packages:
// - checkout: payment codes from stored keys
// - encode: stateless PIX and Bitcoin encoders
// - keys: receiving key management
// - prices: cached BTC quotes
package webapi

import (
	"errors"
	"strings"

	"github.com/amirasaad/paycode/pkg/app"
	checkoutweb "github.com/amirasaad/paycode/webapi/checkout"
	"github.com/amirasaad/paycode/webapi/common"
	encodeweb "github.com/amirasaad/paycode/webapi/encode"
	keysweb "github.com/amirasaad/paycode/webapi/keys"
	pricesweb "github.com/amirasaad/paycode/webapi/prices"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(app *app.App) *fiber.App {
	checkoutSvc := app.CheckoutService

	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	// Metrics are scraped from inside the network, so they skip the limiter.
	if app.Deps.Gatherer != nil {
		fiberApp.Get("/metrics", adaptor.HTTPHandler(
			promhttp.HandlerFor(app.Deps.Gatherer, promhttp.HandlerOpts{}),
		))
	}

	// Configure rate limiting middleware
	// Uses X-Forwarded-For header when behind a proxy
	// Falls back to X-Real-IP or direct IP if needed
	fiberApp.Use(limiter.New(limiter.Config{
		Max:          app.Config.RateLimit.MaxRequests,
		Expiration:   app.Config.RateLimit.Window,
		KeyGenerator: clientIP,
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(requestid.New())
	fiberApp.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	// Health check endpoint
	fiberApp.Get(
		"/",
		func(c *fiber.Ctx) error {
			return c.SendString("Paycode API is running! 🚀")
		},
	)

	checkoutweb.Routes(fiberApp, checkoutSvc)
	encodeweb.Routes(fiberApp, checkoutSvc)
	keysweb.Routes(fiberApp, checkoutSvc)
	pricesweb.Routes(fiberApp, checkoutSvc)
	return fiberApp
}

// clientIP keys the limiter by the first X-Forwarded-For hop, then
// X-Real-IP, then the peer address.
func clientIP(c *fiber.Ctx) string {
	if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
		if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
			return strings.TrimSpace(forwardedFor[:commaIndex])
		}
		return strings.TrimSpace(forwardedFor)
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}
