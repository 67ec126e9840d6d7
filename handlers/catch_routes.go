// handlers/catch_routes.go
package handlers

import (
	"mime/multipart"
	"strconv"
	"strings"

	"fishlog/middleware"
	"fishlog/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

func SetupCatchRoutes(app *fiber.App, catchService *services.CatchService, achievementService *services.AchievementService, log zerolog.Logger) {
	// 🔐 Secured routes: require user context
	secured := app.Group("/catches", middleware.UserContextMiddleware(log))

	secured.Post("/", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)

		var in services.CatchInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid catch payload",
				"cause": err.Error(),
			})
		}

		// photos only come with multipart forms
		var photos []*multipart.FileHeader
		if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
			form, err := c.MultipartForm()
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "invalid multipart form",
					"cause": err.Error(),
				})
			}
			photos = form.File["images"]
		}

		catch, err := catchService.Create(c.UserContext(), userID, middleware.UserName(c), in, photos)
		if err != nil {
			return respondError(c, "failed to log catch", err)
		}

		resp := fiber.Map{"catch": catch}
		if catch.CaughtBy.UserID != nil {
			changed, err := achievementService.RecalculateUser(c.UserContext(), userID)
			if err != nil {
				// the catch is stored; the scheduler will catch up
				log.Warn().Err(err).Str("user_id", userID).Msg("⚠️ recalculation after catch failed")
			} else {
				resp["achievements"] = changed
			}
		}
		return c.Status(fiber.StatusCreated).JSON(resp)
	})

	secured.Get("/", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "0"))
		catches, err := catchService.List(c.UserContext(), middleware.UserID(c), services.CatchFilter{
			Species:     c.Query("species"),
			BodyOfWater: c.Query("water"),
			Limit:       limit,
		})
		if err != nil {
			return respondError(c, "failed to list catches", err)
		}
		return c.JSON(fiber.Map{"catches": catches, "count": len(catches)})
	})

	secured.Get("/:id", func(c *fiber.Ctx) error {
		catch, err := catchService.Get(c.UserContext(), middleware.UserID(c), c.Params("id"))
		if err != nil {
			return respondError(c, "catch not found", err)
		}
		return c.JSON(catch)
	})
}
