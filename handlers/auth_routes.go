package handlers

import (
	"errors"

	"hunter-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService) {
	auth := app.Group("/api/auth")

	auth.Post("/register", func(c *fiber.Ctx) error {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}

		token, err := authService.Register(c.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrEmailTaken) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "User already exists"})
			}
			if errors.Is(err, services.ErrValidation) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password required"})
			}
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"token": token})
	})

	auth.Post("/login", func(c *fiber.Ctx) error {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}

		token, err := authService.Login(c.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
			}
			if errors.Is(err, services.ErrValidation) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password required"})
			}
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"token": token})
	})

	// Tokens are stateless, so logout is client-side: the client discards
	// its token. The endpoint exists to complete the auth surface.
	auth.Post("/logout", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "message": "Logged out successfully"})
	})
}
