// middleware/auth.go
package middleware

import (
	"net/url"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

const (
	LocalUserID    = "user_id"
	LocalUserName  = "user_name"
	LocalUserRoles = "user_roles"

	RoleAdmin = "admin"
)

// UserContextMiddleware extracts user identity and roles set by Gateway.
// Every route behind it requires X-User-ID.
func UserContextMiddleware(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get("X-User-ID"))
		if userID == "" {
			log.Warn().Str("path", c.Path()).Msg("❌ [USER_CTX] X-User-ID required but missing")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		// X-User-Name is percent-encoded by the gateway so non-ASCII names survive
		userName := c.Get("X-User-Name")
		if decoded, err := url.QueryUnescape(userName); err == nil {
			userName = decoded
		}
		if userName == "" {
			userName = userID
		}

		var roles []string
		for _, r := range strings.Split(c.Get("X-User-Roles"), ",") {
			if r = strings.TrimSpace(r); r != "" {
				roles = append(roles, r)
			}
		}

		c.Locals(LocalUserID, userID)
		c.Locals(LocalUserName, userName)
		c.Locals(LocalUserRoles, roles)

		log.Debug().
			Str("user_id", userID).
			Strs("roles", roles).
			Str("path", c.Path()).
			Msg("👤 [USER_CTX] user context attached")

		return c.Next()
	}
}

// RequireRole rejects users without role. It must run after UserContextMiddleware.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, _ := c.Locals(LocalUserRoles).([]string)
		if !slices.Contains(roles, role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": role + " privileges required",
			})
		}
		return c.Next()
	}
}

// UserID returns the id attached by UserContextMiddleware.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}

func UserName(c *fiber.Ctx) string {
	name, _ := c.Locals(LocalUserName).(string)
	return name
}
