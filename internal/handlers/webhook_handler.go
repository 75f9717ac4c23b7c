package handlers

import (
	"crypto/subtle"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/services"
)

type WebhookHandler struct {
	paymentService *services.PaymentService
	secret         string
}

func NewWebhookHandler(paymentService *services.PaymentService, secret string) *WebhookHandler {
	return &WebhookHandler{paymentService: paymentService, secret: secret}
}

// HandlePayment receives payment provider events. The Authorization header
// must carry the shared webhook secret.
func (h *WebhookHandler) HandlePayment(c *fiber.Ctx) error {
	if h.secret == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Webhooks not configured",
		})
	}

	authHeader := c.Get("Authorization")
	if subtle.ConstantTimeCompare([]byte(authHeader), []byte(h.secret)) != 1 {
		return unauthorized(c)
	}

	var webhook dto.PaymentWebhook
	if err := c.BodyParser(&webhook); err != nil {
		return badRequest(c, "Invalid webhook payload")
	}
	if err := dto.Validate(&webhook); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.paymentService.HandleWebhookEvent(c.UserContext(), &webhook); err != nil {
		slog.Error("webhook processing failed", "event_type", webhook.Type, "event_id", webhook.ID, "error", err)
		return fail(c, err)
	}

	slog.Info("webhook processed", "event_type", webhook.Type, "event_id", webhook.ID)
	return c.JSON(fiber.Map{"received": true})
}
