package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mentorconnect/backend/internal/config"
	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/models"
	"github.com/mentorconnect/backend/internal/principal"
	"github.com/mentorconnect/backend/internal/repository"
)

// HasAdminToken reports whether the request carries the configured
// X-Admin-Token. It is used to skip JWT validation on admin routes.
func HasAdminToken(cfg *config.Config) func(*fiber.Ctx) bool {
	return func(c *fiber.Ctx) bool {
		if cfg.AdminToken == "" {
			return false
		}
		return subtle.ConstantTimeCompare([]byte(c.Get("X-Admin-Token")), []byte(cfg.AdminToken)) == 1
	}
}

// AdminRequired admits a request when one of these holds:
// 1. it carries the configured admin token
// 2. the principal's email is listed in ADMIN_EMAILS
// 3. the stored user currently has the admin role
func AdminRequired(store repository.Store, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)
	tokenOK := HasAdminToken(cfg)

	return func(c *fiber.Ctx) error {
		if tokenOK(c) {
			principal.Set(c, principal.Principal{Email: "admin-token", Role: models.RoleAdmin})
			return c.Next()
		}

		p, err := principal.Get(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if containsFold(adminEmails, p.Email) {
			p.Role = models.RoleAdmin
			principal.Set(c, p)
			return c.Next()
		}

		// The role claim may be stale after a role change; the stored user wins.
		user, err := store.Users().FindByID(c.UserContext(), p.UserID)
		if err == nil && user.Role == models.RoleAdmin {
			p.Role = models.RoleAdmin
			principal.Set(c, p)
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func containsFold(list []string, val string) bool {
	for _, item := range list {
		if strings.EqualFold(item, val) {
			return true
		}
	}
	return false
}
