package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(GatewayAuthMiddleware("gw-token", zerolog.Nop()))
	app.Get("/public", func(c *fiber.Ctx) error { return c.SendString("ok") })

	user := app.Group("/user", UserContextMiddleware(zerolog.Nop()))
	user.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(UserID(c) + "|" + UserName(c))
	})
	app.Group("/s/admin", UserContextMiddleware(zerolog.Nop()), RequireRole(RoleAdmin)).
		Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	return app
}

func TestGatewayAuth(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"wrong", "Bearer nope", fiber.StatusUnauthorized},
		{"bearer", "Bearer gw-token", fiber.StatusOK},
		{"raw", "gw-token", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/public", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestUserContext(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/user/me", nil)
	req.Header.Set("Authorization", "Bearer gw-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/user/me", nil)
	req.Header.Set("Authorization", "Bearer gw-token")
	req.Header.Set("X-User-ID", "u1")
	req.Header.Set("X-User-Name", "Matti%20M%C3%A4kinen")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "u1|Matti Mäkinen", string(body))

	req = httptest.NewRequest("GET", "/user/me", nil)
	req.Header.Set("Authorization", "Bearer gw-token")
	req.Header.Set("X-User-ID", "u2")
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "u2|u2", string(body))
}

func TestRequireRole(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/s/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer gw-token")
	req.Header.Set("X-User-ID", "u1")
	req.Header.Set("X-User-Roles", "user")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req.Header.Set("X-User-Roles", "user, admin")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
