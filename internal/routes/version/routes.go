package version

import (
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/reversi/internal/models"
)

var (
	version     models.VersionResponse
	versionOnce sync.Once
)

// getVersion looks up the commit once, on the first request.
func getVersion() models.VersionResponse {
	versionOnce.Do(func() {
		version.GoVersion = runtime.Version()
		version.Commit = "unknown"

		output, err := exec.Command("git", "rev-parse", "HEAD").Output()
		if err == nil {
			version.Commit = strings.TrimSpace(string(output))
		}
	})
	return version
}

func SetupRoutes(app *fiber.App) {
	versionGroup := app.Group("/version")
	versionGroup.Get("/", versionHandler)
}

func versionHandler(c *fiber.Ctx) error {
	return c.JSON(getVersion())
}
