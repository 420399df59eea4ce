package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lk16/reversi/internal"
	"github.com/lk16/reversi/internal/config"
)

func main() {
	config.SetLogLevel()

	// Setup app
	app, cfg, cleanup := internal.SetupApp()
	defer cleanup()

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		<-signals

		slog.Info("Shutting down")
		if err := app.Shutdown(); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	}()

	// Start server
	address := cfg.ServerHost + ":" + cfg.ServerPort
	if err := app.Listen(address); err != nil {
		slog.Error("Server stopped", "error", err)
		cleanup()
		os.Exit(1)
	}
}
