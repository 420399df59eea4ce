package services

import (
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/lk16/reversi/internal/config"
	"github.com/redis/go-redis/v9"
)

// Services contains the connections to the external services. A nil field means the
// service is not configured and the features depending on it are disabled.
type Services struct {
	Postgres *sqlx.DB
	Redis    *redis.Client
}

// InitServices connects to the services that are configured.
func InitServices(cfg *config.ServerConfig) (*Services, error) {
	services := &Services{}

	if cfg.PostgresURL != "" {
		postgres, err := InitPostgres(cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		services.Postgres = postgres
	} else {
		slog.Warn("Postgres is not configured, game results will not be recorded")
	}

	if cfg.RedisURL != "" {
		redisClient, err := InitRedis(cfg.RedisURL)
		if err != nil {
			services.Close()
			return nil, err
		}
		services.Redis = redisClient
	} else {
		slog.Warn("Redis is not configured, search results will not be cached")
	}

	return services, nil
}

// Close closes all open connections.
func (s *Services) Close() {
	if s.Postgres != nil {
		if err := s.Postgres.Close(); err != nil {
			slog.Error("Failed to close postgres connection", "error", err)
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			slog.Error("Failed to close redis connection", "error", err)
		}
	}
}
