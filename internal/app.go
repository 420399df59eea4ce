package internal

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/reversi/internal/config"
	"github.com/lk16/reversi/internal/constants"
	"github.com/lk16/reversi/internal/middleware"
	"github.com/lk16/reversi/internal/routes"
	"github.com/lk16/reversi/internal/search"
	"github.com/lk16/reversi/internal/services"
	"github.com/lk16/reversi/internal/session"
	"golang.org/x/sync/semaphore"
)

const (
	defaultConcurrency  = 256 * 1024 // Maximum number of concurrent connections per worker
	defaultReadTimeout  = 10 * time.Second
	defaultIdleTimeout  = 5 * time.Second
	defaultBodyLimit    = 64 * 1024
	writeTimeoutPadding = 5 * time.Second
)

// SetupApp loads the configuration, connects to the services and creates the app. The
// returned function releases everything SetupApp started.
func SetupApp() (*fiber.App, *config.ServerConfig, func()) {
	// Load configuration
	cfg := config.LoadServerConfig()

	// Initialize services
	services, err := services.InitServices(cfg)
	if err != nil {
		slog.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	limiter := semaphore.NewWeighted(int64(runtime.NumCPU()))
	sessions := session.NewStore(search.NewEngine(search.AlphaBeta, search.WithLimiter(limiter)))

	ctx, cancel := context.WithCancel(context.Background())
	go sessions.PruneEvery(ctx, constants.SessionPruneInterval, constants.SessionIdleTTL)

	cleanup := func() {
		cancel()
		services.Close()
	}

	return NewApp(cfg, services, sessions, limiter), cfg, cleanup
}

// NewApp creates the app with all routes for the given configuration, services and
// live games. limiter bounds the number of searches running for /api/search, and
// should be shared with the engine of sessions.
func NewApp(
	cfg *config.ServerConfig,
	services *services.Services,
	sessions *session.Store,
	limiter *semaphore.Weighted,
) *fiber.App {
	app := fiber.New(fiber.Config{
		Concurrency:  defaultConcurrency,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: cfg.AITimeout + writeTimeoutPadding,
		IdleTimeout:  defaultIdleTimeout,
		BodyLimit:    defaultBodyLimit,
	})

	// Setup connections to external services, live games and config in Fiber app
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("services", services)
		c.Locals("sessions", sessions)
		c.Locals("searchLimiter", limiter)
		c.Locals("config", cfg)
		return c.Next()
	})

	// Add logging middleware
	app.Use(middleware.Logging())

	// Setup all routes
	routes.SetupRoutes(app)

	return app
}
