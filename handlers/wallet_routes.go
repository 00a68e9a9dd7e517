// handlers/wallet_routes.go
package handlers

import (
	"errors"
	"log"

	"digital-id-system/middleware"
	"digital-id-system/models"
	"digital-id-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupWalletRoutes(app *fiber.App, walletService *services.WalletService, verificationService *services.VerificationService) {
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Get("/user/wallets", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		wallets, err := walletService.ListWallets(userID)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(wallets)
	})

	securedGroup.Post("/user/wallets", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			Address    string           `json:"address"`
			ChainType  models.ChainType `json:"chain_type"`
			WalletType string           `json:"wallet_type"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
				"cause": err.Error(),
			})
		}
		if req.WalletType == "" {
			req.WalletType = "External"
		}

		link, err := walletService.ConnectWallet(userID, req.Address, req.ChainType, req.WalletType)
		if err != nil {
			if errors.Is(err, services.ErrWalletExists) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "wallet already linked",
				})
			}
			return errorResponse(c, err)
		}

		// Tell the step engine; the wallet and reward are already committed,
		// and the engine derives step 1 from the wallet row regardless.
		if err := verificationService.OnWalletConnected(userID); err != nil {
			log.Printf("⚠️ Wallet step callback failed for %s: %v", userID, err)
		}

		state, err := verificationService.GetVerificationState(userID)
		if err != nil {
			return errorResponse(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"wallet":       link,
			"verification": state,
		})
	})

	securedGroup.Delete("/user/wallets/:id", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		if err := walletService.RemoveWallet(userID, c.Params("id")); err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{"message": "wallet removed"})
	})
}
