package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/services"
)

// AdminHandler serves the admin dashboard: users, mentor verification,
// sessions and platform overview.
type AdminHandler struct {
	userService    *services.UserService
	mentorService  *services.MentorService
	sessionService *services.SessionService
}

func NewAdminHandler(userService *services.UserService, mentorService *services.MentorService, sessionService *services.SessionService) *AdminHandler {
	return &AdminHandler{
		userService:    userService,
		mentorService:  mentorService,
		sessionService: sessionService,
	}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userService.List(c.UserContext(), c.Query("role"))
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.UserResponse, len(users))
	for i := range users {
		out[i] = dto.NewUserResponse(&users[i])
	}
	return c.JSON(out)
}

func (h *AdminHandler) ChangeRole(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid user ID")
	}

	var req dto.UpdateRoleRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	user, err := h.userService.ChangeRole(c.UserContext(), id, req.Role)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	p, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid user ID")
	}

	if err := h.userService.Delete(c.UserContext(), p, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

func (h *AdminHandler) VerifyMentor(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid mentor ID")
	}

	mentor, err := h.mentorService.Verify(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(mentor)
}

func (h *AdminHandler) ListSessions(c *fiber.Ctx) error {
	sessions, err := h.sessionService.ListAll(c.UserContext(), c.Query("status"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sessions)
}

// CompleteSession records the external completion of an accepted session.
func (h *AdminHandler) CompleteSession(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid session ID")
	}

	session, err := h.sessionService.Complete(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(session)
}

func (h *AdminHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.userService.Overview(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(overview)
}
