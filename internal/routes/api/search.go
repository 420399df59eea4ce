package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/reversi/internal/models"
	"github.com/lk16/reversi/internal/repository"
	"github.com/lk16/reversi/internal/search"
	"golang.org/x/sync/semaphore"
)

// Search runs the engine on an arbitrary board. Responses are cached in redis. Waiting
// for a free search slot counts towards the timeout.
func Search(c *fiber.Ctx) error {
	var payload models.SearchRequest
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "Invalid request body")
	}

	req, err := payload.Parse()
	if err != nil {
		return badRequest(c, err.Error())
	}

	repo := repository.NewSearchCacheRepository(c)

	cached, found, err := repo.Lookup(c.Context(), req)
	if err != nil {
		slog.Warn("Search cache lookup failed", "error", err)
	}
	if found {
		return c.Status(fiber.StatusOK).JSON(cached)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), serverConfig(c).AITimeout)
	defer cancel()

	limiter := c.Locals("searchLimiter").(*semaphore.Weighted) //nolint: errcheck
	engine := search.NewEngine(req.Strategy, search.WithLimiter(limiter))

	result, err := engine.SearchContext(ctx, req.Board, req.Player, req.Depth)
	if err != nil {
		return errorResponse(c, err)
	}

	response := models.NewSearchResponse(result)
	if err = repo.Store(c.Context(), req, response); err != nil {
		slog.Warn("Search cache store failed", "error", err)
	}

	return c.Status(fiber.StatusOK).JSON(response)
}
