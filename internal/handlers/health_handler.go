package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mentorconnect/backend/internal/dto"
)

type HealthHandler struct {
	store string
	ping  func() error
}

// NewHealthHandler reports on the named store driver. ping may be nil when
// no database is configured.
func NewHealthHandler(store string, ping func() error) *HealthHandler {
	return &HealthHandler{store: store, ping: ping}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "disabled"
	if h.ping != nil {
		dbStatus = "ok"
		if err := h.ping(); err != nil {
			dbStatus = "unhealthy: " + err.Error()
		}
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Store:     h.store,
	})
}
