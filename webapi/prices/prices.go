// Package prices serves cached BTC quotes.
package prices

import (
	checkoutsvc "github.com/amirasaad/paycode/pkg/service/checkout"
	"github.com/amirasaad/paycode/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers HTTP routes for price quotes.
func Routes(app *fiber.App, svc *checkoutsvc.Service) {
	app.Get("/api/prices/:currency", GetPrice(svc))
}

// GetPrice returns a Fiber handler for the BTC price in a fiat currency.
// A stale quote is returned with is_stale set rather than as an error.
func GetPrice(svc *checkoutsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		quote, err := svc.Quote(c.UserContext(), c.Params("currency"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get price", err)
		}
		if quote.IsStale {
			c.Set("Warning", `110 - "Response is Stale"`)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Price fetched", common.ToQuoteResponse(quote))
	}
}
