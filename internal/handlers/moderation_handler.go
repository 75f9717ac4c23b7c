package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/services"
)

type ModerationHandler struct {
	moderationService *services.ModerationService
}

func NewModerationHandler(moderationService *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

func (h *ModerationHandler) CreateReport(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.CreateReportRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	report, err := h.moderationService.CreateReport(c.UserContext(), p.UserID, &req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ModerationHandler) BlockUser(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.BlockUserRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	if err := h.moderationService.BlockUser(c.UserContext(), p.UserID, req.BlockedID); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "User blocked successfully"})
}

func (h *ModerationHandler) UnblockUser(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	blockedID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid user ID")
	}

	if err := h.moderationService.UnblockUser(c.UserContext(), p.UserID, blockedID); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "User unblocked successfully"})
}

func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	status := c.Query("status", "")
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	reports, total, err := h.moderationService.ListReports(c.UserContext(), status, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch reports",
		})
	}

	return c.JSON(fiber.Map{
		"reports": reports,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

func (h *ModerationHandler) ActionReport(c *fiber.Ctx) error {
	reportID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid report ID")
	}

	var req dto.ActionReportRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	if err := h.moderationService.ActionReport(c.UserContext(), reportID, &req); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Report updated successfully"})
}
