package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/lk16/reversi/internal/config"
)

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}

// BasicAuth middleware that checks for basic auth credentials.
func BasicAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cfg := c.Locals("config").(*config.ServerConfig) //nolint: errcheck

		if cfg.BasicAuthUsername == "" {
			return unauthorized(c)
		}

		handler := basicauth.New(basicauth.Config{
			Users: map[string]string{
				cfg.BasicAuthUsername: cfg.BasicAuthPassword,
			},
			Realm: "Restricted",
			Unauthorized: func(c *fiber.Ctx) error {
				// This triggers the browser to show a login dialog
				c.Set("WWW-Authenticate", `Basic realm="Restricted"`)
				return unauthorized(c)
			},
		})

		return handler(c)
	}
}

// AuthOrToken middleware that accepts either basic auth or a token header. Requests
// pass unchecked when neither is configured.
func AuthOrToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cfg := c.Locals("config").(*config.ServerConfig) //nolint: errcheck

		if !cfg.AuthEnabled() {
			return c.Next()
		}

		token := c.Get("x-token")
		if token != "" && token == cfg.Token {
			return c.Next()
		}

		return BasicAuth()(c)
	}
}
