package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/mentorconnect/backend/internal/config"
	"github.com/mentorconnect/backend/internal/handlers"
	"github.com/mentorconnect/backend/internal/metrics"
	"github.com/mentorconnect/backend/internal/middleware"
	"github.com/mentorconnect/backend/internal/models"
	"github.com/mentorconnect/backend/internal/repository"
)

// Handlers groups every HTTP handler the route table needs.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Health     *handlers.HealthHandler
	Users      *handlers.UserHandler
	Mentors    *handlers.MentorHandler
	Sessions   *handlers.SessionHandler
	Reviews    *handlers.ReviewHandler
	Messages   *handlers.MessageHandler
	Moderation *handlers.ModerationHandler
	Admin      *handlers.AdminHandler
	Settings   *handlers.SettingsHandler
	Webhooks   *handlers.WebhookHandler
	Legal      *handlers.LegalHandler
}

func rateLimit(perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               perMinute,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}

func Setup(
	app *fiber.App,
	cfg *config.Config,
	store repository.Store,
	settings middleware.SettingsSource,
	h Handlers,
) {
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// General API rate limiter, per IP
	if cfg.RateLimit > 0 {
		api.Use(rateLimit(cfg.RateLimit))
	}
	api.Use(middleware.Maintenance(settings, 5*time.Second))

	api.Get("/health", h.Health.Check)

	api.Get("/legal/privacy", h.Legal.PrivacyPolicy)
	api.Get("/legal/terms", h.Legal.TermsOfService)

	// Auth - public, with a stricter per-IP limit
	auth := api.Group("/auth")
	if cfg.RateLimit > 0 {
		auth.Use(rateLimit(max(1, cfg.RateLimit/6)))
	}
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	jwt := middleware.JWTProtected(cfg)
	mentorOnly := middleware.RoleRequired(models.RoleMentor)

	api.Post("/auth/logout", jwt, h.Auth.Logout)

	api.Get("/users/profile", jwt, h.Users.GetProfile)
	api.Put("/users/profile", jwt, h.Users.UpdateProfile)

	// Static mentor paths are registered before /mentors/:mentorId.
	api.Get("/mentors", h.Mentors.List)
	api.Get("/mentors/profile", jwt, mentorOnly, h.Mentors.GetOwn)
	api.Put("/mentors/profile", jwt, mentorOnly, h.Mentors.UpdateOwn)
	api.Get("/mentors/earnings", jwt, mentorOnly, h.Mentors.Earnings)
	api.Get("/mentors/:mentorId", h.Mentors.Get)
	api.Get("/mentors/:mentorId/reviews", h.Reviews.ListForMentor)

	sessions := api.Group("/sessions", jwt)
	sessions.Post("/create", h.Sessions.Create)
	sessions.Get("/upcoming", h.Sessions.Upcoming)
	sessions.Get("/mentor/requests", mentorOnly, h.Sessions.MentorRequests())
	sessions.Get("/mentor/sessions", mentorOnly, h.Sessions.MentorSessions())
	sessions.Get("/user/requests", h.Sessions.UserRequests())
	sessions.Get("/user/sessions", h.Sessions.UserSessions())
	sessions.Patch("/requests/:sessionId/status", h.Sessions.UpdateStatus)
	sessions.Delete("/requests/:sessionId", h.Sessions.Cancel)
	sessions.Patch("/:sessionId/meeting-link", h.Sessions.UpdateMeetingLink)
	sessions.Get("/:sessionId", h.Sessions.Get)

	api.Get("/reviews/mentor/:mentorId", h.Reviews.ListForMentor)
	reviews := api.Group("/reviews", jwt)
	reviews.Post("/create", h.Reviews.Create)
	reviews.Put("/:reviewId", h.Reviews.Update)
	reviews.Delete("/:reviewId", h.Reviews.Delete)

	messages := api.Group("/messages", jwt)
	messages.Get("/conversations", h.Messages.Conversations)
	messages.Get("/chat/:counterpartyId", h.Messages.Chat)
	messages.Post("/send", h.Messages.Send)
	messages.Put("/read/:senderId", h.Messages.MarkRead)
	messages.Get("/unread/count", h.Messages.UnreadCount)

	// Moderation - user endpoints
	api.Post("/reports", jwt, h.Moderation.CreateReport)
	api.Post("/blocks", jwt, h.Moderation.BlockUser)
	api.Delete("/blocks/:id", jwt, h.Moderation.UnblockUser)

	// Admin panel: JWT or X-Admin-Token, then admin check
	admin := api.Group("/admin",
		middleware.JWTProtected(cfg, middleware.HasAdminToken(cfg)),
		middleware.AdminRequired(store, cfg),
	)
	admin.Get("/users", h.Admin.ListUsers)
	admin.Put("/users/:id/role", h.Admin.ChangeRole)
	admin.Delete("/users/:id", h.Admin.DeleteUser)
	admin.Put("/mentors/:id/verify", h.Admin.VerifyMentor)
	admin.Get("/sessions", h.Admin.ListSessions)
	admin.Post("/sessions/:id/complete", h.Admin.CompleteSession)
	admin.Get("/overview", h.Admin.Overview)
	admin.Get("/moderation/reports", h.Moderation.ListReports)
	admin.Put("/moderation/reports/:id", h.Moderation.ActionReport)
	admin.Get("/settings", h.Settings.Get)
	admin.Patch("/settings", h.Settings.Update)

	// Webhooks - shared secret, no JWT
	api.Post("/webhooks/payments", h.Webhooks.HandlePayment)
}
