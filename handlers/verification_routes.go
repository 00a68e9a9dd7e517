// handlers/verification_routes.go
package handlers

import (
	"strconv"

	"digital-id-system/middleware"
	"digital-id-system/services"

	"github.com/gofiber/fiber/v2"
)

// errorResponse maps the service error taxonomy onto HTTP statuses:
// validation errors are caller-correctable (400), transient store errors are
// retryable (503), anything else is a plain 500.
func errorResponse(c *fiber.Ctx, err error) error {
	if services.IsValidation(err) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if services.IsTransient(err) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "temporary storage error, please retry",
			"cause": err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func SetupVerificationRoutes(app *fiber.App, verificationService *services.VerificationService) {
	// Static step definitions — public, no user context needed.
	app.Get("/verification/steps", func(c *fiber.Ctx) error {
		return c.JSON(verificationService.GetStepDefinitions())
	})

	// 🔐 Secured routes — require user context from the Gateway.
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Get("/user/verification", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		state, err := verificationService.GetVerificationState(userID)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(state)
	})

	securedGroup.Post("/user/verification/steps/:index/complete", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid step index",
			})
		}

		var payload services.CompleteStepPayload
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&payload); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "invalid request body",
					"cause": err.Error(),
				})
			}
		}

		state, err := verificationService.CompleteStep(userID, index, &payload)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(state)
	})
}

// notFound is a tiny helper shared by the handler files.
func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msg})
}
