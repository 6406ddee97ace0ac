// Package encode exposes the stateless payload encoders over HTTP.
package encode

import (
	"strconv"

	"github.com/amirasaad/paycode/pkg/exchange"
	"github.com/amirasaad/paycode/pkg/money"
	"github.com/amirasaad/paycode/pkg/payment/bitcoin"
	"github.com/amirasaad/paycode/pkg/payment/pix"
	checkoutsvc "github.com/amirasaad/paycode/pkg/service/checkout"
	"github.com/amirasaad/paycode/webapi/checkout"
	"github.com/amirasaad/paycode/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers HTTP routes for payload encoding.
func Routes(app *fiber.App, svc *checkoutsvc.Service) {
	group := app.Group("/api/encode")
	group.Post("/pix", Pix())
	group.Post("/pix/verify", Verify())
	group.Post("/bitcoin", Bitcoin(svc))
}

// Pix returns a Fiber handler that encodes a PIX BR Code.
func Pix() fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[PixRequest](c)
		if input == nil {
			return err // error response already written
		}
		amount, err := checkout.ParseAmount(input.Amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid request", err)
		}
		payload, err := pix.Encode(input.Key, amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to encode PIX code", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "PIX code encoded", PayloadResponse{
			Payload: payload,
			Amount:  amount.String(),
		})
	}
}

// Verify returns a Fiber handler that checks a PIX payload's CRC.
func Verify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[VerifyRequest](c)
		if input == nil {
			return err // error response already written
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "PIX payload checked", VerifyResponse{
			Valid: pix.VerifyCRC(input.Payload),
		})
	}
}

// Bitcoin returns a Fiber handler that encodes a bitcoin: or lightning: URI.
// Without an explicit price the cached BRL quote is used.
func Bitcoin(svc *checkoutsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[BitcoinRequest](c)
		if input == nil {
			return err // error response already written
		}
		amount, err := checkout.ParseAmount(input.Amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid request", err)
		}

		var stale bool
		rate := exchange.Rate{Currency: money.BRL.String(), Price: input.Price.InexactFloat64(), Source: "request"}
		if input.Price.IsZero() {
			quote, err := svc.Quote(c.UserContext(), money.BRL.String())
			if err != nil {
				return common.ProblemDetailsJSON(c, "Failed to quote BTC price", err)
			}
			rate, stale = quote.Rate, quote.IsStale
		}

		uri, err := bitcoin.Encode(input.Address, amount, rate, input.Network)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to encode Bitcoin code", err)
		}
		btc, err := bitcoin.CalculateAmount(amount, rate)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to encode Bitcoin code", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Bitcoin code encoded", PayloadResponse{
			Payload:   uri,
			Amount:    amount.String(),
			BTCAmount: strconv.FormatFloat(btc, 'f', 8, 64),
			Price:     strconv.FormatFloat(rate.Price, 'f', -1, 64),
			IsStale:   stale,
		})
	}
}
