package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/services"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.CreateReviewRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	review, err := h.reviewService.Create(c.UserContext(), p, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c, "reviewId")
	if !ok {
		return badRequest(c, "Invalid review ID")
	}

	var req dto.UpdateReviewRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	review, err := h.reviewService.Update(c.UserContext(), p, id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(review)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c, "reviewId")
	if !ok {
		return badRequest(c, "Invalid review ID")
	}

	if err := h.reviewService.Delete(c.UserContext(), p, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Review deleted"})
}

func (h *ReviewHandler) ListForMentor(c *fiber.Ctx) error {
	id, ok := paramID(c, "mentorId")
	if !ok {
		return badRequest(c, "Invalid mentor ID")
	}

	reviews, err := h.reviewService.ListForMentor(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(reviews)
}
