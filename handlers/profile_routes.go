// handlers/profile_routes.go
package handlers

import (
	"digital-id-system/middleware"
	"digital-id-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App, profileService *services.ProfileService) {
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Get("/user/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		profile, found, err := profileService.GetProfile(userID)
		if err != nil {
			return errorResponse(c, err)
		}
		if !found {
			return notFound(c, "profile not found")
		}
		return c.JSON(profile)
	})

	securedGroup.Put("/user/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			DisplayName *string                `json:"display_name"`
			Bio         *string                `json:"bio"`
			SocialLinks map[string]interface{} `json:"social_links"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
				"cause": err.Error(),
			})
		}

		profile, err := profileService.UpdateProfile(userID, services.ProfileUpdate{
			DisplayName: req.DisplayName,
			Bio:         req.Bio,
			SocialLinks: req.SocialLinks,
		})
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(profile)
	})

	securedGroup.Post("/user/profile/avatar", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		fileHeader, err := c.FormFile("avatar")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "avatar file required",
			})
		}

		profile, err := profileService.SaveAvatar(userID, fileHeader)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(profile)
	})
}
