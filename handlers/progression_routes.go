// handlers/progression_routes.go
package handlers

import (
	"fishlog/middleware"
	"fishlog/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

func SetupProgressionRoutes(app *fiber.App, progressionService *services.ProgressionService, statsService *services.StatsService, log zerolog.Logger) {
	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		entries, err := statsService.Leaderboard(c.UserContext(), c.QueryInt("limit", 0))
		if err != nil {
			return respondError(c, "failed to load leaderboard", err)
		}
		return c.JSON(fiber.Map{"leaderboard": entries})
	})

	secured := app.Group("/user", middleware.UserContextMiddleware(log))

	secured.Get("/progress", func(c *fiber.Ctx) error {
		summary, err := progressionService.Summary(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, "DB error fetching progress", err)
		}
		return c.JSON(summary)
	})

	secured.Get("/stats", func(c *fiber.Ctx) error {
		stats, err := statsService.UserStats(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, "failed to compute stats", err)
		}
		return c.JSON(stats)
	})
}
