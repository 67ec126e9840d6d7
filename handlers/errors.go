package handlers

import (
	"errors"

	"fishlog/achievements"
	"fishlog/services"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors onto status codes.
func respondError(c *fiber.Ctx, msg string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrInvalidCatch):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound), errors.Is(err, achievements.ErrUnknownAchievement):
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
		"cause": err.Error(),
	})
}
