// Package keys manages the restaurant's receiving keys over HTTP.
package keys

import (
	checkoutsvc "github.com/amirasaad/paycode/pkg/service/checkout"
	"github.com/amirasaad/paycode/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers HTTP routes for key management.
func Routes(app *fiber.App, svc *checkoutsvc.Service) {
	pix := app.Group("/api/keys/pix")
	pix.Post("/", CreatePixKey(svc))
	pix.Get("/", ListPixKeys(svc))
	pix.Patch("/:id", SetPixKeyActive(svc))
	pix.Delete("/:id", DeletePixKey(svc))

	btc := app.Group("/api/keys/bitcoin")
	btc.Post("/", CreateBitcoinKey(svc))
	btc.Get("/", ListBitcoinKeys(svc))
	btc.Patch("/:id", SetBitcoinKeyActive(svc))
	btc.Delete("/:id", DeleteBitcoinKey(svc))
}

// CreatePixKey returns a Fiber handler for adding a PIX key.
func CreatePixKey(svc *checkoutsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreatePixKeyRequest](c)
		if input == nil {
			return err // error response already written
		}
		key, err := svc.AddPixKey(c.UserContext(), input.KeyType, input.KeyValue, input.CompanyName, input.City)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to add PIX key", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "PIX key added", ToPixKeyResponse(key))
	}
}

// ListPixKeys returns a Fiber handler listing PIX keys, newest first.
// ?active=true restricts the list to enabled keys.
func ListPixKeys(svc *checkoutsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		keys, err := svc.ListPixKeys(c.UserContext(), c.QueryBool("active"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list PIX keys", err)
		}
		dtos := make([]*PixKeyResponse, 0, len(keys))
		for _, k := range keys {
			dtos = append(dtos, ToPixKeyResponse(k))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "PIX keys fetched", dtos)
	}
}

// SetPixKeyActive returns a Fiber handler that enables or disables a PIX key.
func SetPixKeyActive(svc *checkoutsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid key ID", err)
		}
		input, err := common.BindAndValidate[SetActiveRequest](c)
		if input == nil {
			return err // error response already written
		}
		key, err := svc.SetPixKeyActive(c.UserContext(), id, *input.IsActive)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update PIX key", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "PIX key updated", ToPixKeyResponse(key))
	}
}

// DeletePixKey returns a Fiber handler that removes a PIX key.
func DeletePixKey(svc *checkoutsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid key ID", err)
		}
		if err := svc.DeletePixKey(c.UserContext(), id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete PIX key", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// CreateBitcoinKey returns a Fiber handler for adding a Bitcoin key.
func CreateBitcoinKey(svc *checkoutsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateBitcoinKeyRequest](c)
		if input == nil {
			return err // error response already written
		}
		key, err := svc.AddBitcoinKey(c.UserContext(), input.Network, input.Address)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to add Bitcoin key", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Bitcoin key added", ToBitcoinKeyResponse(key))
	}
}

func ListBitcoinKeys(svc *checkoutsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		keys, err := svc.ListBitcoinKeys(c.UserContext(), c.QueryBool("active"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list Bitcoin keys", err)
		}
		dtos := make([]*BitcoinKeyResponse, 0, len(keys))
		for _, k := range keys {
			dtos = append(dtos, ToBitcoinKeyResponse(k))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Bitcoin keys fetched", dtos)
	}
}

func SetBitcoinKeyActive(svc *checkoutsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid key ID", err)
		}
		input, err := common.BindAndValidate[SetActiveRequest](c)
		if input == nil {
			return err // error response already written
		}
		key, err := svc.SetBitcoinKeyActive(c.UserContext(), id, *input.IsActive)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update Bitcoin key", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Bitcoin key updated", ToBitcoinKeyResponse(key))
	}
}

func DeleteBitcoinKey(svc *checkoutsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid key ID", err)
		}
		if err := svc.DeleteBitcoinKey(c.UserContext(), id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete Bitcoin key", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
