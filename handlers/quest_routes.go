package handlers

import (
	"hunter-system/middleware"
	"hunter-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupQuestRoutes(app *fiber.App, questService *services.QuestService,
	rewardService *services.RewardService, verifier middleware.TokenVerifier) {

	quests := app.Group("/api/quests", middleware.UserContextMiddleware(verifier))

	// Serves the 24h cache when fresh; otherwise regenerates from the
	// user's current stats, focus history and completion history.
	quests.Get("/", func(c *fiber.Ctx) error {
		payload, err := questService.GetQuests(c.Context(), userID(c))
		if err != nil {
			return serviceError(c, err)
		}
		c.Set("Content-Type", "application/json")
		return c.Send(payload)
	})

	quests.Post("/complete", func(c *fiber.Ctx) error {
		var ev services.QuestCompletion
		if err := c.BodyParser(&ev); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}

		result, err := rewardService.CompleteQuest(c.Context(), userID(c), ev)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":          true,
			"stats":            result.Stats,
			"xp":               result.XP,
			"level":            result.Level,
			"completed_quests": result.CompletedQuests,
			"passives":         result.Passives,
			"titles":           result.Titles,
			"badges":           result.Badges,
		})
	})

	quests.Post("/focus", func(c *fiber.Ctx) error {
		var req struct {
			Stat       string `json:"stat"`
			QuestTitle string `json:"questTitle"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}

		if err := rewardService.RecordFocus(c.Context(), userID(c), req.Stat, req.QuestTitle); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true})
	})
}
