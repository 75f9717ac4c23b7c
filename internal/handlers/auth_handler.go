package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	resp, err := h.authService.Refresh(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	if err := h.authService.Logout(c.UserContext(), &req); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to logout",
		})
	}

	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}
