package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lk16/reversi/internal/repository"
)

// GetStats returns the number of finished games per winner and search depth.
func GetStats(c *fiber.Ctx) error {
	repo := repository.NewResultRepository(c)
	stats, err := repo.GetStats(c.Context())
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}
