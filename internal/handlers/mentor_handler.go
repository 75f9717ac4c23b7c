package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/services"
)

type MentorHandler struct {
	mentorService *services.MentorService
}

func NewMentorHandler(mentorService *services.MentorService) *MentorHandler {
	return &MentorHandler{mentorService: mentorService}
}

// List handles GET /mentors?expertise=&minRating=&maxPrice=&search=
func (h *MentorHandler) List(c *fiber.Ctx) error {
	var q dto.MentorQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	mentors, err := h.mentorService.List(c.UserContext(), &q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(mentors)
}

func (h *MentorHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "mentorId")
	if !ok {
		return badRequest(c, "Invalid mentor ID")
	}

	mentor, err := h.mentorService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(mentor)
}

func (h *MentorHandler) GetOwn(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	mentor, err := h.mentorService.GetOwn(c.UserContext(), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(mentor)
}

func (h *MentorHandler) UpdateOwn(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.UpdateMentorProfileRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	mentor, err := h.mentorService.UpdateOwn(c.UserContext(), p, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(mentor)
}

func (h *MentorHandler) Earnings(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	earnings, err := h.mentorService.Earnings(c.UserContext(), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(earnings)
}
