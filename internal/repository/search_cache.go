package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/reversi/internal/constants"
	"github.com/lk16/reversi/internal/models"
	"github.com/lk16/reversi/internal/services"
	"github.com/redis/go-redis/v9"
)

// SearchCacheRepository caches search responses in redis. Searches are pure functions of
// their request, so cached responses never go stale.
type SearchCacheRepository struct {
	services *services.Services
}

// NewSearchCacheRepository creates a new SearchCacheRepository.
func NewSearchCacheRepository(c *fiber.Ctx) *SearchCacheRepository {
	services := c.Locals("services").(*services.Services) //nolint: errcheck

	return NewSearchCacheRepositoryFromServices(services)
}

func NewSearchCacheRepositoryFromServices(services *services.Services) *SearchCacheRepository {
	return &SearchCacheRepository{
		services: services,
	}
}

// Enabled returns whether redis is configured.
func (repo *SearchCacheRepository) Enabled() bool {
	return repo.services != nil && repo.services.Redis != nil
}

// SearchCacheKey returns the redis key for a search request.
func SearchCacheKey(req models.ParsedSearchRequest) string {
	return fmt.Sprintf("%s:%s:%d:%d:%s",
		constants.SearchCacheKeyPrefix, req.Board, req.Player, req.Depth, req.Strategy)
}

// Lookup returns a cached response. The boolean is false on a cache miss or when redis
// is not configured.
func (repo *SearchCacheRepository) Lookup(
	ctx context.Context,
	req models.ParsedSearchRequest,
) (models.SearchResponse, bool, error) {
	if !repo.Enabled() {
		return models.SearchResponse{}, false, nil
	}

	data, err := repo.services.Redis.Get(ctx, SearchCacheKey(req)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.SearchResponse{}, false, nil
	}
	if err != nil {
		return models.SearchResponse{}, false, fmt.Errorf("error reading search cache: %w", err)
	}

	var response models.SearchResponse
	if err = json.Unmarshal(data, &response); err != nil {
		return models.SearchResponse{}, false, fmt.Errorf("error unmarshaling cached search: %w", err)
	}

	return response, true, nil
}

// Store saves a response. It does nothing when redis is not configured.
func (repo *SearchCacheRepository) Store(
	ctx context.Context,
	req models.ParsedSearchRequest,
	response models.SearchResponse,
) error {
	if !repo.Enabled() {
		return nil
	}

	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("error marshaling search response: %w", err)
	}

	err = repo.services.Redis.Set(ctx, SearchCacheKey(req), data, constants.SearchCacheTTL).Err()
	if err != nil {
		return fmt.Errorf("error writing search cache: %w", err)
	}

	return nil
}
