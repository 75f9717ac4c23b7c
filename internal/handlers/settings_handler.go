package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorconnect/backend/internal/config"
	"github.com/mentorconnect/backend/internal/services"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
}

func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get returns the effective platform settings.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	settings, err := h.settingsService.Current(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(settings)
}

// Update applies a partial patch. Omitted fields keep their current value.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	var patch config.SettingsPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request body")
	}

	settings, err := h.settingsService.Update(c.UserContext(), p.UserID, patch)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(settings)
}
