// Package principal resolves the authenticated caller from request locals.
package principal

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mentorconnect/backend/internal/models"
)

const localsKey = "principal"

var ErrNoPrincipal = errors.New("no authenticated principal")

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

func (p Principal) IsAdmin() bool { return p.Role == models.RoleAdmin }
func (p Principal) IsMentor() bool { return p.Role == models.RoleMentor }

// FromToken builds a Principal from the sub, email and role claims.
func FromToken(token *jwt.Token) (Principal, error) {
	if token == nil {
		return Principal{}, errors.New("missing token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Principal{}, errors.New("missing sub claim")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return Principal{}, err
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if role == "" {
		role = models.RoleUser
	}
	return Principal{UserID: id, Email: email, Role: role}, nil
}

func Set(c *fiber.Ctx, p Principal) {
	c.Locals(localsKey, p)
}

// Get returns the principal stored by the auth middleware.
func Get(c *fiber.Ctx) (Principal, error) {
	if p, ok := c.Locals(localsKey).(Principal); ok {
		return p, nil
	}
	if token, ok := c.Locals("user").(*jwt.Token); ok {
		return FromToken(token)
	}
	return Principal{}, ErrNoPrincipal
}
