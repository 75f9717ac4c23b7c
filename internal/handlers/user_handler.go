package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := h.userService.Profile(c.UserContext(), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.UpdateProfileRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	user, err := h.userService.UpdateProfile(c.UserContext(), p, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.NewUserResponse(user))
}
