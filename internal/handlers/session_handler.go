package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/models"
	"github.com/mentorconnect/backend/internal/services"
)

type SessionHandler struct {
	sessionService *services.SessionService
}

func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func (h *SessionHandler) Create(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.CreateSessionRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	session, err := h.sessionService.Create(c.UserContext(), p, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *SessionHandler) Get(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c, "sessionId")
	if !ok {
		return badRequest(c, "Invalid session ID")
	}

	session, err := h.sessionService.Get(c.UserContext(), p, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(session)
}

// list builds a handler for one party/view combination. The status query
// parameter filters the result.
func (h *SessionHandler) list(asMentor bool, view services.SessionView) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := caller(c)
		if !ok {
			return unauthorized(c)
		}

		sessions, err := h.sessionService.ListByParty(c.UserContext(), p, asMentor, view, c.Query("status"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(sessions)
	}
}

func (h *SessionHandler) MentorRequests() fiber.Handler {
	return h.list(true, services.ViewRequests)
}

func (h *SessionHandler) UserRequests() fiber.Handler {
	return h.list(false, services.ViewRequests)
}

func (h *SessionHandler) MentorSessions() fiber.Handler {
	return h.list(true, services.ViewSessions)
}

func (h *SessionHandler) UserSessions() fiber.Handler {
	return h.list(false, services.ViewSessions)
}

func (h *SessionHandler) Upcoming(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	sessions, err := h.sessionService.Upcoming(c.UserContext(), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sessions)
}

// UpdateStatus handles PATCH /sessions/requests/:sessionId/status.
func (h *SessionHandler) UpdateStatus(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c, "sessionId")
	if !ok {
		return badRequest(c, "Invalid session ID")
	}

	var req dto.UpdateSessionStatusRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	session, err := h.sessionService.Transition(c.UserContext(), p, id, models.SessionStatus(req.Status), req.MeetingLink)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(session)
}

func (h *SessionHandler) UpdateMeetingLink(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c, "sessionId")
	if !ok {
		return badRequest(c, "Invalid session ID")
	}

	var req dto.MeetingLinkRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	session, err := h.sessionService.UpdateMeetingLink(c.UserContext(), p, id, req.MeetingLink)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(session)
}

// Cancel handles DELETE /sessions/requests/:sessionId. The body is optional.
func (h *SessionHandler) Cancel(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c, "sessionId")
	if !ok {
		return badRequest(c, "Invalid session ID")
	}

	var req dto.CancelSessionRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &req); !ok {
			return err
		}
	}

	if err := h.sessionService.Cancel(c.UserContext(), p, id, req.Reason); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Session request cancelled"})
}
