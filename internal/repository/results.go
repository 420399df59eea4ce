package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/reversi/internal/constants"
	"github.com/lk16/reversi/internal/models"
	"github.com/lk16/reversi/internal/othello"
	"github.com/lk16/reversi/internal/services"
)

// ErrResultsDisabled is returned when postgres is not configured.
var ErrResultsDisabled = errors.New("game results are not recorded: postgres is not configured")

// ResultRepository records finished games in postgres and keeps aggregated counts in redis.
type ResultRepository struct {
	services *services.Services
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(c *fiber.Ctx) *ResultRepository {
	services := c.Locals("services").(*services.Services) //nolint: errcheck

	return NewResultRepositoryFromServices(services)
}

func NewResultRepositoryFromServices(services *services.Services) *ResultRepository {
	return &ResultRepository{
		services: services,
	}
}

// Enabled returns whether postgres is configured.
func (repo *ResultRepository) Enabled() bool {
	return repo.services != nil && repo.services.Postgres != nil
}

func statsField(winner, depth int) string {
	return fmt.Sprintf("%s:%d", othello.PlayerName(winner), depth)
}

// RecordResult stores a finished game. Recording the same game twice has no effect.
func (repo *ResultRepository) RecordResult(ctx context.Context, result models.GameResult) error {
	if !repo.Enabled() {
		return ErrResultsDisabled
	}

	query := `
		INSERT INTO game_results (id, black_discs, white_discs, winner, depth, move_count)
		VALUES (:id, :black_discs, :white_discs, :winner, :depth, :move_count)
		ON CONFLICT (id) DO NOTHING
	`

	res, err := repo.services.Postgres.NamedExecContext(ctx, query, result)
	if err != nil {
		return fmt.Errorf("error recording game result: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking recorded game result: %w", err)
	}

	if inserted == 0 || repo.services.Redis == nil {
		return nil
	}

	// Only update the counts if they were built before, otherwise the next GetStats call builds them.
	redisConn := repo.services.Redis
	exists, err := redisConn.Exists(ctx, constants.ResultStatsKey).Result()
	if err != nil {
		return fmt.Errorf("error checking result stats: %w", err)
	}

	if exists == 0 {
		return nil
	}

	pipe := redisConn.Pipeline()
	pipe.HIncrBy(ctx, constants.ResultStatsKey, statsField(result.Winner, result.Depth), 1)
	pipe.Expire(ctx, constants.ResultStatsKey, constants.ResultStatsTTL)
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("error updating result stats: %w", err)
	}

	return nil
}

type statRow struct {
	Winner int `db:"winner"`
	Depth  int `db:"depth"`
	Count  int `db:"count"`
}

func (repo *ResultRepository) loadStatsFromPostgres(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT winner, depth, count(*) AS count
		FROM game_results
		GROUP BY winner, depth
	`

	var rows []statRow
	if err := repo.services.Postgres.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error loading result stats: %w", err)
	}

	stats := make(map[string]int, len(rows))
	for _, row := range rows {
		stats[statsField(row.Winner, row.Depth)] = row.Count
	}

	return stats, nil
}

// loadStats reads the counts from redis, building them from postgres on a miss.
func (repo *ResultRepository) loadStats(ctx context.Context) (map[string]int, error) {
	if repo.services.Redis == nil {
		return repo.loadStatsFromPostgres(ctx)
	}

	redisConn := repo.services.Redis

	cached, err := redisConn.HGetAll(ctx, constants.ResultStatsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("error getting result stats from Redis: %w", err)
	}

	if len(cached) > 0 {
		stats := make(map[string]int, len(cached))
		for key, value := range cached {
			count, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("error parsing result stats value: %w", err)
			}
			stats[key] = count
		}
		return stats, nil
	}

	stats, err := repo.loadStatsFromPostgres(ctx)
	if err != nil {
		return nil, err
	}

	if len(stats) == 0 {
		return stats, nil
	}

	values := make(map[string]interface{}, len(stats))
	for key, count := range stats {
		values[key] = count
	}

	pipe := redisConn.Pipeline()
	pipe.HSet(ctx, constants.ResultStatsKey, values)
	pipe.Expire(ctx, constants.ResultStatsKey, constants.ResultStatsTTL)
	if _, err = pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("error storing result stats in Redis: %w", err)
	}

	return stats, nil
}

// GetStats returns the number of finished games per winner and depth.
func (repo *ResultRepository) GetStats(ctx context.Context) ([]models.ResultStats, error) {
	if !repo.Enabled() {
		return nil, ErrResultsDisabled
	}

	stats, err := repo.loadStats(ctx)
	if err != nil {
		return nil, err
	}

	return ParseResultStats(stats)
}

// ParseResultStats converts "winner:depth" counts to a sorted list.
func ParseResultStats(stats map[string]int) ([]models.ResultStats, error) {
	result := make([]models.ResultStats, 0, len(stats))

	for key, count := range stats {
		winner, depthString, ok := strings.Cut(key, ":")
		if !ok {
			return nil, fmt.Errorf("error parsing result stats key: %q", key)
		}

		depth, err := strconv.Atoi(depthString)
		if err != nil {
			return nil, fmt.Errorf("error parsing result stats key %q: %w", key, err)
		}

		result = append(result, models.ResultStats{Winner: winner, Depth: depth, Count: count})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Depth != result[j].Depth {
			return result[i].Depth < result[j].Depth
		}
		return result[i].Winner < result[j].Winner
	})

	return result, nil
}
