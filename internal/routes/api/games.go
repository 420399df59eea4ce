package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/reversi/internal/config"
	"github.com/lk16/reversi/internal/models"
	"github.com/lk16/reversi/internal/othello"
	"github.com/lk16/reversi/internal/repository"
	"github.com/lk16/reversi/internal/session"
)

func sessionStore(c *fiber.Ctx) *session.Store {
	return c.Locals("sessions").(*session.Store) //nolint: errcheck
}

func serverConfig(c *fiber.Ctx) *config.ServerConfig {
	return c.Locals("config").(*config.ServerConfig) //nolint: errcheck
}

// recordResult stores the result when the game just finished. Failures are logged
// and do not fail the request.
func recordResult(c *fiber.Ctx, s *session.Session, state models.GameState) {
	if !state.GameOver {
		return
	}

	if err := s.RecordResult(c.Context(), repository.NewResultRepository(c)); err != nil {
		slog.Error("Failed to record game result", "id", state.ID, "error", err)
	}
}

// CreateGame starts a new game.
func CreateGame(c *fiber.Ctx) error {
	var req models.NewGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	humans, err := session.ParseHumans(req.Human)
	if err != nil {
		return badRequest(c, err.Error())
	}

	depth := serverConfig(c).SearchDepth
	if req.Depth != nil {
		depth = *req.Depth
	}

	s, err := sessionStore(c).Create(humans, depth)
	if err != nil {
		return badRequest(c, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(s.State())
}

// GetGame returns the state of a game.
func GetGame(c *fiber.Ctx) error {
	s, err := sessionStore(c).Get(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(s.State())
}

// DeleteGame ends a game without recording it.
func DeleteGame(c *fiber.Ctx) error {
	if err := sessionStore(c).Delete(c.Params("id")); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// PlayMove plays a move for a human player.
func PlayMove(c *fiber.Ctx) error {
	var req models.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	move, err := othello.ParseMove(req.Move)
	if err != nil {
		return badRequest(c, err.Error())
	}

	s, err := sessionStore(c).Get(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	state, err := s.PlayMove(move)
	if err != nil {
		return errorResponse(c, err)
	}

	recordResult(c, s, state)
	return c.Status(fiber.StatusOK).JSON(state)
}

// PlayAIMove lets the computer play a move.
func PlayAIMove(c *fiber.Ctx) error {
	s, err := sessionStore(c).Get(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), serverConfig(c).AITimeout)
	defer cancel()

	state, err := s.ComputeAIMove(ctx)
	if err != nil {
		return errorResponse(c, err)
	}

	recordResult(c, s, state)
	return c.Status(fiber.StatusOK).JSON(state)
}

// UndoMove takes back moves until a human player is to move.
func UndoMove(c *fiber.Ctx) error {
	s, err := sessionStore(c).Get(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	state, err := s.Undo()
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(state)
}
