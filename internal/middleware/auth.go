package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/mentorconnect/backend/internal/config"
	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/principal"
)

// JWTProtected validates the bearer token and stores the caller's principal.
// Requests matching any skip filter pass through untouched.
func JWTProtected(cfg *config.Config, skip ...func(*fiber.Ctx) bool) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		Filter: func(c *fiber.Ctx) bool {
			for _, f := range skip {
				if f(c) {
					return true
				}
			}
			return false
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			p, err := principal.FromToken(c.Locals("user").(*jwt.Token))
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Error:   true,
					Message: "Unauthorized: invalid token claims",
				})
			}
			principal.Set(c, p)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// RoleRequired lets the request through when the principal has one of roles.
// Admins always pass.
func RoleRequired(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal.Get(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if p.IsAdmin() {
			return c.Next()
		}
		for _, r := range roles {
			if p.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Access denied for role " + p.Role,
		})
	}
}
