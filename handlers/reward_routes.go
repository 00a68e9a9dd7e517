// handlers/reward_routes.go
package handlers

import (
	"strconv"

	"digital-id-system/middleware"
	"digital-id-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRewardRoutes(app *fiber.App, rewardService *services.RewardService, authClient *services.AuthServiceClient) {
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Get("/user/rewards", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		limit := 0
		if limitStr := c.Query("limit"); limitStr != "" {
			l, err := strconv.Atoi(limitStr)
			if err != nil || l <= 0 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid limit parameter"})
			}
			limit = l
		}

		events, err := rewardService.List(userID, limit)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(events)
	})

	securedGroup.Get("/user/rewards/balance", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		balance, err := rewardService.Sum(userID)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{
			"owner_id": userID,
			"balance":  balance,
		})
	})

	// SSE stream authenticates via query token (EventSource can't set headers).
	app.Get("/user/rewards/stream", middleware.SSEAuthMiddleware(authClient), rewardService.StreamUserRewardsSSE)
}
