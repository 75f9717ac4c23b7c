package middleware

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mentorconnect/backend/internal/config"
	"github.com/mentorconnect/backend/internal/dto"
)

// SettingsSource is satisfied by services.SettingsService.
type SettingsSource interface {
	Current(ctx context.Context) (config.PlatformSettings, error)
}

// Paths that stay reachable while maintenance mode is on.
var maintenanceSkipPaths = []string{
	"/api/health",
	"/api/auth/",
	"/api/admin/",
	"/api/webhooks/",
	"/api/legal/",
}

// Maintenance answers 503 for non-admin API routes while the platform is in
// maintenance mode. The flag is re-read at most once per ttl.
func Maintenance(settings SettingsSource, ttl time.Duration) fiber.Handler {
	var (
		mu      sync.Mutex
		on      bool
		checked time.Time
	)
	enabled := func(ctx context.Context) bool {
		mu.Lock()
		defer mu.Unlock()
		if time.Since(checked) < ttl {
			return on
		}
		cur, err := settings.Current(ctx)
		if err != nil {
			slog.Warn("maintenance check failed", "error", err)
			return on
		}
		on = cur.General.MaintenanceMode
		checked = time.Now()
		return on
	}

	return func(c *fiber.Ctx) error {
		path := c.Path()
		for _, skip := range maintenanceSkipPaths {
			if strings.HasPrefix(path, skip) {
				return c.Next()
			}
		}
		if !enabled(c.UserContext()) {
			return c.Next()
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "The platform is under maintenance. Please try again later.",
		})
	}
}
