package handlers

import (
	"errors"

	"hunter-system/services"

	"github.com/gofiber/fiber/v2"
)

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

// serviceError maps the service error taxonomy onto HTTP statuses.
func serviceError(c *fiber.Ctx, err error) error {
	var missing *services.MissingResponseError
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	case errors.As(err, &missing):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": missing.Error()})
	case errors.Is(err, services.ErrSetupAlreadyCompleted):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Setup already completed"})
	case errors.Is(err, services.ErrInvalidStat):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid stat or value"})
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrUpstreamUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error", "cause": err.Error()})
}
