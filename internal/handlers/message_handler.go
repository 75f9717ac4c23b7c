package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/services"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) Conversations(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	convs, err := h.messageService.Conversations(c.UserContext(), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(convs)
}

func (h *MessageHandler) Chat(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	other, ok := paramID(c, "counterpartyId")
	if !ok {
		return badRequest(c, "Invalid counterparty ID")
	}

	msgs, err := h.messageService.ChatHistory(c.UserContext(), p, other)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(msgs)
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.SendMessageRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	msg, err := h.messageService.Send(c.UserContext(), p, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	sender, ok := paramID(c, "senderId")
	if !ok {
		return badRequest(c, "Invalid sender ID")
	}

	n, err := h.messageService.MarkRead(c.UserContext(), p, sender)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MarkReadResponse{Updated: n})
}

func (h *MessageHandler) UnreadCount(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	n, err := h.messageService.UnreadCount(c.UserContext(), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.UnreadCountResponse{Count: n})
}
