package api

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/reversi/internal/othello"
	"github.com/lk16/reversi/internal/repository"
	"github.com/lk16/reversi/internal/session"
)

// statusCode maps an error to the HTTP status code of the response.
func statusCode(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, othello.ErrIllegalMove):
		return fiber.StatusBadRequest
	case errors.Is(err, session.ErrNotYourTurn),
		errors.Is(err, session.ErrNotAITurn),
		errors.Is(err, session.ErrGameOver),
		errors.Is(err, session.ErrNoHumans),
		errors.Is(err, session.ErrThinking),
		errors.Is(err, session.ErrGameModified):
		return fiber.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, repository.ErrResultsDisabled):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// errorResponse writes err as a JSON error. Unexpected errors are logged.
func errorResponse(c *fiber.Ctx, err error) error {
	status := statusCode(err)
	if status == fiber.StatusInternalServerError {
		slog.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}
