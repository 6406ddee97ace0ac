// Package checkout serves the payment codes for the POS checkout screen.
package checkout

import (
	checkoutsvc "github.com/amirasaad/paycode/pkg/service/checkout"
	"github.com/amirasaad/paycode/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers HTTP routes for checkout code generation.
func Routes(app *fiber.App, svc *checkoutsvc.Service) {
	group := app.Group("/api/checkout")
	group.Post("/pix", PixCode(svc))
	group.Post("/bitcoin", BitcoinCode(svc))
}

// PixCode returns a Fiber handler that builds a PIX BR Code from a stored key.
func PixCode(svc *checkoutsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CodeRequest](c)
		if input == nil {
			return err // error response already written
		}
		keyID, amount, err := input.Parse()
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid request", err)
		}
		code, err := svc.PixCode(c.UserContext(), keyID, amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to generate PIX code", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "PIX code generated", ToCodeResponse(code))
	}
}

// BitcoinCode returns a Fiber handler that builds a bitcoin: or lightning:
// URI from a stored key and the current BRL quote.
func BitcoinCode(svc *checkoutsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CodeRequest](c)
		if input == nil {
			return err // error response already written
		}
		keyID, amount, err := input.Parse()
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid request", err)
		}
		code, err := svc.BitcoinCode(c.UserContext(), keyID, amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to generate Bitcoin code", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Bitcoin code generated", ToCodeResponse(code))
	}
}
