package ws

import (
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/lk16/reversi/internal/config"
	"github.com/lk16/reversi/internal/middleware"
	"github.com/lk16/reversi/internal/services"
	"github.com/lk16/reversi/internal/session"
	"github.com/lk16/reversi/internal/ws"
)

func handleWs(c *websocket.Conn) {
	services := c.Locals("services").(*services.Services) //nolint: errcheck
	sessions := c.Locals("sessions").(*session.Store)     //nolint: errcheck
	cfg := c.Locals("config").(*config.ServerConfig)      //nolint: errcheck

	h := ws.NewHandler(c, services, sessions, cfg.AITimeout)
	err := h.Handle()
	if err != nil {
		slog.Error("ws handle error", "error", err)
	}
}

// upgradeOnly rejects plain HTTP requests to the websocket route.
func upgradeOnly(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// SetupRoutes sets up the routes for the websocket.
func SetupRoutes(app *fiber.App) {
	app.Get("/ws", middleware.AuthOrToken(), upgradeOnly, websocket.New(handleWs))
}
