package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/principal"
	"github.com/mentorconnect/backend/internal/services"
)

var statusByError = []struct {
	err    error
	status int
}{
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{services.ErrInvalidToken, fiber.StatusUnauthorized},

	{services.ErrNotSessionMentor, fiber.StatusForbidden},
	{services.ErrNotSessionStudent, fiber.StatusForbidden},
	{services.ErrNotSessionParty, fiber.StatusForbidden},
	{services.ErrNotReviewAuthor, fiber.StatusForbidden},
	{services.ErrMessageBlocked, fiber.StatusForbidden},
	{services.ErrRegistrationClosed, fiber.StatusForbidden},

	{services.ErrSessionNotFound, fiber.StatusNotFound},
	{services.ErrMentorNotFound, fiber.StatusNotFound},
	{services.ErrMentorProfileMissing, fiber.StatusNotFound},
	{services.ErrReviewNotFound, fiber.StatusNotFound},
	{services.ErrReceiverNotFound, fiber.StatusNotFound},
	{services.ErrReportNotFound, fiber.StatusNotFound},
	{services.ErrBlockNotFound, fiber.StatusNotFound},
	{services.ErrUserNotFound, fiber.StatusNotFound},

	{services.ErrEmailTaken, fiber.StatusConflict},
	{services.ErrReviewExists, fiber.StatusConflict},
	{services.ErrAlreadyBlocked, fiber.StatusConflict},
	{services.ErrSelfBlock, fiber.StatusConflict},

	{services.ErrInvalidTransition, fiber.StatusBadRequest},
	{services.ErrNotPending, fiber.StatusBadRequest},
	{services.ErrInvalidDuration, fiber.StatusBadRequest},
	{services.ErrInvalidPrice, fiber.StatusBadRequest},
	{services.ErrSelfBooking, fiber.StatusBadRequest},
	{services.ErrUnknownSessionView, fiber.StatusBadRequest},
	{services.ErrInvalidStatusFilter, fiber.StatusBadRequest},
	{services.ErrMeetingLinkClosed, fiber.StatusBadRequest},
	{services.ErrSessionNotCompleted, fiber.StatusBadRequest},
	{services.ErrInvalidRating, fiber.StatusBadRequest},
	{services.ErrCommentRequired, fiber.StatusBadRequest},
	{services.ErrReviewMismatch, fiber.StatusBadRequest},
	{services.ErrEmptyMessage, fiber.StatusBadRequest},
	{services.ErrMessageToSelf, fiber.StatusBadRequest},
	{services.ErrMessageNotAllowed, fiber.StatusBadRequest},
	{services.ErrInvalidReport, fiber.StatusBadRequest},
	{services.ErrInvalidRole, fiber.StatusBadRequest},
	{services.ErrInvalidSettings, fiber.StatusBadRequest},
	{services.ErrSelfDelete, fiber.StatusBadRequest},
}

// statusFor maps a service error to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	var rejected *services.ContentRejectedError
	if errors.As(err, &rejected) {
		return fiber.StatusBadRequest
	}
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return fiber.StatusInternalServerError
}

// fail writes err as an ErrorResponse. Internal errors are logged and their
// details hidden from the client.
func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"error", err,
		)
		message = "Internal server error"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

// parseBody decodes and validates the request body into req. It writes the
// 400 response itself and reports whether the handler may continue.
func parseBody(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, badRequest(c, "Invalid request body")
	}
	if err := dto.Validate(req); err != nil {
		return false, badRequest(c, err.Error())
	}
	return true, nil
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func caller(c *fiber.Ctx) (principal.Principal, bool) {
	p, err := principal.Get(c)
	return p, err == nil
}
