// handlers/achievement_routes.go
package handlers

import (
	"strings"

	"fishlog/middleware"
	"fishlog/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

func SetupAchievementRoutes(app *fiber.App, achievementService *services.AchievementService, log zerolog.Logger) {
	catalog := achievementService.Engine.Catalog()

	// 🔓 Public catalog, still behind Gateway auth
	app.Get("/achievements", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"achievements": catalog.All()})
	})
	app.Get("/achievements/:key", func(c *fiber.Ctx) error {
		cfg, ok := catalog.Get(c.Params("key"))
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "achievement not found",
			})
		}
		return c.JSON(cfg)
	})

	secured := app.Group("/user/achievements", middleware.UserContextMiddleware(log))

	secured.Get("/", func(c *fiber.Ctx) error {
		views, err := achievementService.ListForUser(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, "failed to load achievements", err)
		}
		unlocked := 0
		for _, v := range views {
			if v.Record != nil && v.Record.Unlocked {
				unlocked++
			}
		}
		return c.JSON(fiber.Map{
			"achievements": views,
			"unlocked":     unlocked,
			"total":        len(views),
		})
	})

	// live progress of one achievement, not persisted
	secured.Get("/:key", func(c *fiber.Ctx) error {
		view, err := achievementService.EvaluateForUser(c.UserContext(), middleware.UserID(c), c.Params("key"))
		if err != nil {
			return respondError(c, "failed to evaluate achievement", err)
		}
		return c.JSON(view)
	})

	secured.Post("/recalculate", func(c *fiber.Ctx) error {
		changed, err := achievementService.RecalculateUser(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, "recalculation failed", err)
		}
		return c.JSON(fiber.Map{"achievements": changed})
	})

	// Admin endpoints
	admin := app.Group("/s/admin/achievements", middleware.UserContextMiddleware(log), middleware.RequireRole(middleware.RoleAdmin))

	admin.Post("/recalculate", func(c *fiber.Ctx) error {
		type Req struct {
			UserID string `json:"user_id"`
			All    bool   `json:"all"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		req.UserID = strings.TrimSpace(req.UserID)

		switch {
		case req.All:
			n, err := achievementService.RecalculateAll(c.UserContext())
			if err != nil {
				return respondError(c, "recalculation failed", err)
			}
			log.Info().Str("admin_id", middleware.UserID(c)).Int("users", n).Msg("🛠️ admin recalculated all anglers")
			return c.JSON(fiber.Map{"users": n})
		case req.UserID != "":
			changed, err := achievementService.RecalculateUser(c.UserContext(), req.UserID)
			if err != nil {
				return respondError(c, "recalculation failed", err)
			}
			return c.JSON(fiber.Map{"user_id": req.UserID, "achievements": changed})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "user_id or all is required",
			})
		}
	})
}
