package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/lk16/reversi/internal/search"
)

const (
	defaultAITimeout = 10 * time.Second
	dotEnvFile       = ".env"
)

// ServerConfig holds all configuration values loaded from environment variables.
type ServerConfig struct {
	ServerHost        string
	ServerPort        string
	RedisURL          string
	PostgresURL       string
	BasicAuthUsername string
	BasicAuthPassword string
	Token             string
	SearchDepth       int
	AITimeout         time.Duration
}

// AuthEnabled returns whether the API requires a token or basic auth.
func (c *ServerConfig) AuthEnabled() bool {
	return c.Token != "" || c.BasicAuthUsername != ""
}

// LoadServerConfig loads configuration from environment variables, after loading a .env
// file if one exists. Invalid configuration is fatal.
func LoadServerConfig() *ServerConfig {
	LoadDotEnv()

	cfg, err := ParseServerConfig(os.Getenv)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	return cfg
}

// ParseServerConfig builds a ServerConfig from a lookup function such as os.Getenv.
func ParseServerConfig(getenv func(string) string) (*ServerConfig, error) {
	cfg := &ServerConfig{
		ServerHost:        getenv("REVERSI_SERVER_HOST"),
		ServerPort:        getenv("REVERSI_SERVER_PORT"),
		RedisURL:          getenv("REVERSI_REDIS_URL"),
		PostgresURL:       getenv("REVERSI_POSTGRES_URL"),
		BasicAuthUsername: getenv("REVERSI_BASIC_AUTH_USER"),
		BasicAuthPassword: getenv("REVERSI_BASIC_AUTH_PASS"),
		Token:             getenv("REVERSI_TOKEN"),
		SearchDepth:       search.DefaultDifficulty.Depth(),
		AITimeout:         defaultAITimeout,
	}

	if cfg.ServerHost == "" || cfg.ServerPort == "" {
		return nil, errors.New("REVERSI_SERVER_HOST and REVERSI_SERVER_PORT must be set")
	}

	if (cfg.BasicAuthUsername == "") != (cfg.BasicAuthPassword == "") {
		return nil, errors.New("REVERSI_BASIC_AUTH_USER and REVERSI_BASIC_AUTH_PASS must be set together")
	}

	if value := getenv("REVERSI_SEARCH_DEPTH"); value != "" {
		difficulty, err := search.ParseDifficulty(value)
		if err != nil {
			return nil, fmt.Errorf("invalid REVERSI_SEARCH_DEPTH: %w", err)
		}
		cfg.SearchDepth = difficulty.Depth()
	}

	if value := getenv("REVERSI_AI_TIMEOUT"); value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("invalid REVERSI_AI_TIMEOUT: %w", err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("invalid REVERSI_AI_TIMEOUT: %s is not positive", value)
		}
		cfg.AITimeout = timeout
	}

	return cfg, nil
}

// LoadDotEnv loads a .env file from the working directory if there is one. Variables
// that are already set are not overwritten.
func LoadDotEnv() {
	err := godotenv.Load(dotEnvFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("Cannot load .env file", "error", err)
		os.Exit(1)
	}
}

// getEnvMust either returns the environment variable or logs a fatal error if it is not set.
func getEnvMust(key string) string {
	value := os.Getenv(key)
	if value == "" {
		slog.Error("Environment variable is not set", "key", key)
		os.Exit(1)
	}
	return value
}

// GetEnvIntMust returns an integer environment variable or fallback when it is not set.
// Values that are not integers are fatal.
func GetEnvIntMust(key string, fallback int) int {
	if os.Getenv(key) == "" {
		return fallback
	}

	value := getEnvMust(key)
	parsed, err := strconv.Atoi(value)
	if err != nil {
		slog.Error("Cannot load environment variable, it must be an integer", "key", key, "value", value)
		os.Exit(1)
	}

	return parsed
}
