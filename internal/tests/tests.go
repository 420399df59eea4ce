// Package tests contains helpers for testing the routes against an app without redis
// or postgres.
package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"runtime"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/reversi/internal"
	"github.com/lk16/reversi/internal/config"
	"github.com/lk16/reversi/internal/search"
	"github.com/lk16/reversi/internal/services"
	"github.com/lk16/reversi/internal/session"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/semaphore"
)

const TestToken = "test-token"

// TestConfig returns a configuration without external services.
func TestConfig() *config.ServerConfig {
	return &config.ServerConfig{
		ServerHost:  "localhost",
		ServerPort:  "0",
		SearchDepth: search.Easy.Depth(),
		AITimeout:   5 * time.Second,
	}
}

// NewTestApp creates an app for cfg without redis and postgres.
func NewTestApp(cfg *config.ServerConfig) *fiber.App {
	limiter := semaphore.NewWeighted(int64(runtime.NumCPU()))
	sessions := session.NewStore(search.NewEngine(search.AlphaBeta, search.WithLimiter(limiter)))
	return internal.NewApp(cfg, &services.Services{}, sessions, limiter)
}

// Request sends a request to app. A non-nil body is encoded as JSON.
func Request(t *testing.T, app *fiber.App, method, path string, body any, token string) *http.Response {
	t.Helper()

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, path, payload)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("x-token", token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	t.Cleanup(func() {
		resp.Body.Close()
	})

	return resp
}

// Decode decodes the JSON body of resp into a T.
func Decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var value T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&value))
	return value
}
