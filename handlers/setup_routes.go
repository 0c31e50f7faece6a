package handlers

import (
	"hunter-system/middleware"
	"hunter-system/models"
	"hunter-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSetupRoutes(app *fiber.App, setupService *services.SetupService, verifier middleware.TokenVerifier) {
	setup := app.Group("/api/setup", middleware.UserContextMiddleware(verifier))

	setup.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"questions": services.SetupQuestions})
	})

	setup.Post("/", func(c *fiber.Ctx) error {
		var req struct {
			Responses map[string]models.SetupAnswer `json:"responses"`
		}
		if err := c.BodyParser(&req); err != nil || req.Responses == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid responses format"})
		}

		result, err := setupService.CompleteSetup(c.Context(), userID(c), req.Responses)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"stats":   result.Stats,
			"message": result.Message,
		})
	})

	// Dev/support escape hatch: reverts the one-time gate.
	setup.Post("/reset", func(c *fiber.Ctx) error {
		if err := setupService.ResetSetup(c.Context(), userID(c)); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Setup status reset successfully. User will see setup questionnaire on next login.",
		})
	})
}
