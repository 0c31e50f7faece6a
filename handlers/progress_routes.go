package handlers

import (
	"encoding/json"

	"hunter-system/middleware"
	"hunter-system/services"
	"hunter-system/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressRoutes(app *fiber.App, progressionService *services.ProgressionService,
	profileService *services.ProfileService, verifier middleware.TokenVerifier) {

	secured := app.Group("/api", middleware.UserContextMiddleware(verifier))

	secured.Get("/stats", func(c *fiber.Ctx) error {
		stats, logs, err := progressionService.GetStats(c.Context(), userID(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"stats": stats, "logs": logs})
	})

	// Manual stat edit: absolute value, canonical stat names only.
	secured.Patch("/stats", func(c *fiber.Ctx) error {
		var req struct {
			Stat  string `json:"stat"`
			Value *int   `json:"value"`
		}
		if err := c.BodyParser(&req); err != nil || req.Value == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid stat or value"})
		}

		user, err := progressionService.UpdateStat(c.Context(), userID(c), req.Stat, *req.Value)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"stats": user.Stats, "logs": user.StatLogs})
	})

	secured.Get("/profile", func(c *fiber.Ctx) error {
		view, err := profileService.GetProfile(c.Context(), userID(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(view)
	})

	secured.Post("/profile", func(c *fiber.Ctx) error {
		var patch services.ProfilePatch
		if err := c.BodyParser(&patch); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}

		if err := profileService.UpdateProfile(c.Context(), userID(c), patch); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true})
	})

	secured.Post("/profile/avatar", func(c *fiber.Ctx) error {
		if !utils.R2Configured() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "avatar storage not configured"})
		}
		fileHeader, err := c.FormFile("avatar")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file required"})
		}

		url, err := utils.UploadAvatar(c.Context(), fileHeader, utils.AvatarKey(fileHeader.Filename))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "upload failed", "cause": err.Error()})
		}
		if err := profileService.SetAvatarURL(c.Context(), userID(c), url); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "avatar_url": url})
	})

	secured.Get("/badges", func(c *fiber.Ctx) error {
		badges, err := profileService.GetBadges(c.Context(), userID(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(badges)
	})

	secured.Get("/milestones", func(c *fiber.Ctx) error {
		milestones, err := profileService.GetMilestones(c.Context(), userID(c))
		if err != nil {
			return serviceError(c, err)
		}
		if len(milestones) == 0 {
			return c.JSON([]any{})
		}
		c.Set("Content-Type", "application/json")
		return c.Send(milestones)
	})

	secured.Post("/milestones", func(c *fiber.Ctx) error {
		var req struct {
			Milestones json.RawMessage `json:"milestones"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}

		if err := profileService.SetMilestones(c.Context(), userID(c), req.Milestones); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true})
	})
}
