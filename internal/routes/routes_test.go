package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorconnect/backend/internal/config"
	"github.com/mentorconnect/backend/internal/database/dbtest"
	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/events"
	"github.com/mentorconnect/backend/internal/handlers"
	"github.com/mentorconnect/backend/internal/models"
	"github.com/mentorconnect/backend/internal/repository"
	"github.com/mentorconnect/backend/internal/services"
)

const (
	adminToken    = "admin-secret"
	webhookSecret = "whsec_test"
)

type server struct {
	app      *fiber.App
	store    *repository.GormStore
	settings *services.SettingsService
}

func newServer(t *testing.T) *server {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:            "test-secret",
		JWTAccessExpiry:      15 * time.Minute,
		JWTRefreshExpiry:     24 * time.Hour,
		AdminEmails:          "root@example.com",
		AdminToken:           adminToken,
		PaymentWebhookSecret: webhookSecret,
	}
	store, msgs := dbtest.Store(t)
	settings := services.NewSettingsService(store, config.SettingsPatch{})
	moderation := services.NewModerationService(store)
	ratings := services.NewRatingAggregator(store)
	sessions := services.NewSessionService(store, settings, events.Noop{}, "https://meet.jit.si")
	users := services.NewUserService(store, settings)
	mentors := services.NewMentorService(store, settings)

	app := fiber.New()
	Setup(app, cfg, store, settings, Handlers{
		Auth:       handlers.NewAuthHandler(services.NewAuthService(store, cfg, settings)),
		Health:     handlers.NewHealthHandler("memory", nil),
		Users:      handlers.NewUserHandler(users),
		Mentors:    handlers.NewMentorHandler(mentors),
		Sessions:   handlers.NewSessionHandler(sessions),
		Reviews:    handlers.NewReviewHandler(services.NewReviewService(store, ratings, moderation)),
		Messages:   handlers.NewMessageHandler(services.NewMessageService(store, msgs, moderation)),
		Moderation: handlers.NewModerationHandler(moderation),
		Admin:      handlers.NewAdminHandler(users, mentors, sessions),
		Settings:   handlers.NewSettingsHandler(settings),
		Webhooks:   handlers.NewWebhookHandler(services.NewPaymentService(store), webhookSecret),
		Legal:      handlers.NewLegalHandler(settings),
	})
	return &server{app: app, store: store, settings: settings}
}

// call sends a JSON request and decodes the response body into out when out
// is non-nil.
func (s *server) call(t *testing.T, method, path string, headers map[string]string, body, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func (s *server) register(t *testing.T, role, first, email string) dto.AuthResponse {
	t.Helper()
	var auth dto.AuthResponse
	status := s.call(t, http.MethodPost, "/api/auth/register", nil, dto.RegisterRequest{
		FirstName: first,
		LastName:  "Test",
		Email:     email,
		Password:  "password123",
		Role:      role,
	}, &auth)
	require.Equal(t, http.StatusCreated, status)
	return auth
}

func TestHealthAndLegalArePublic(t *testing.T) {
	s := newServer(t)

	var health dto.HealthResponse
	assert.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/health", nil, nil, &health))
	assert.Equal(t, "disabled", health.DB)
	assert.Equal(t, "memory", health.Store)

	assert.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/legal/privacy", nil, nil, nil))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newServer(t)

	var body dto.ErrorResponse
	assert.Equal(t, http.StatusUnauthorized, s.call(t, http.MethodGet, "/api/users/profile", nil, nil, &body))
	assert.True(t, body.Error)

	assert.Equal(t, http.StatusUnauthorized,
		s.call(t, http.MethodGet, "/api/sessions/upcoming", bearer("not-a-jwt"), nil, nil))
}

func TestRoleGating(t *testing.T) {
	s := newServer(t)
	student := s.register(t, models.RoleUser, "Sam", "sam@example.com")

	assert.Equal(t, http.StatusForbidden,
		s.call(t, http.MethodGet, "/api/mentors/earnings", bearer(student.AccessToken), nil, nil))
	assert.Equal(t, http.StatusForbidden,
		s.call(t, http.MethodGet, "/api/admin/users", bearer(student.AccessToken), nil, nil))
}

func TestAdminAccess(t *testing.T) {
	s := newServer(t)
	root := s.register(t, models.RoleUser, "Root", "root@example.com")
	assert.Equal(t, models.RoleAdmin, root.User.Role)

	assert.Equal(t, http.StatusOK,
		s.call(t, http.MethodGet, "/api/admin/overview", bearer(root.AccessToken), nil, nil))
	assert.Equal(t, http.StatusOK,
		s.call(t, http.MethodGet, "/api/admin/users", map[string]string{"X-Admin-Token": adminToken}, nil, nil))
	assert.Equal(t, http.StatusUnauthorized,
		s.call(t, http.MethodGet, "/api/admin/users", map[string]string{"X-Admin-Token": "wrong"}, nil, nil))
}

func TestMaintenanceMode(t *testing.T) {
	s := newServer(t)
	on := true
	_, err := s.settings.Update(context.Background(), uuid.New(), config.SettingsPatch{
		General: &config.GeneralPatch{MaintenanceMode: &on},
	})
	require.NoError(t, err)

	var body dto.ErrorResponse
	assert.Equal(t, http.StatusServiceUnavailable, s.call(t, http.MethodGet, "/api/mentors", nil, nil, &body))
	assert.Contains(t, body.Message, "maintenance")

	assert.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/health", nil, nil, nil))
	assert.Equal(t, http.StatusOK,
		s.call(t, http.MethodGet, "/api/admin/settings", map[string]string{"X-Admin-Token": adminToken}, nil, nil))
}

func TestPaymentWebhook(t *testing.T) {
	s := newServer(t)
	event := dto.PaymentWebhook{
		ID:   "evt_1",
		Type: services.PaymentSucceeded,
		Data: dto.PaymentEventData{SessionID: uuid.New()},
	}

	assert.Equal(t, http.StatusUnauthorized,
		s.call(t, http.MethodPost, "/api/webhooks/payments", nil, event, nil))
	assert.Equal(t, http.StatusNotFound,
		s.call(t, http.MethodPost, "/api/webhooks/payments", map[string]string{"Authorization": webhookSecret}, event, nil))

	event.Type = "payment.disputed"
	var ack map[string]bool
	assert.Equal(t, http.StatusOK,
		s.call(t, http.MethodPost, "/api/webhooks/payments", map[string]string{"Authorization": webhookSecret}, event, &ack))
	assert.True(t, ack["received"])
}

// Book, accept, complete, review and message through the HTTP surface.
func TestSessionLifecycleOverHTTP(t *testing.T) {
	s := newServer(t)
	student := s.register(t, models.RoleUser, "Sam", "sam@example.com")
	mentor := s.register(t, models.RoleMentor, "Maya", "maya@example.com")

	var profile models.MentorProfile
	require.Equal(t, http.StatusOK,
		s.call(t, http.MethodGet, "/api/mentors/profile", bearer(mentor.AccessToken), nil, &profile))

	var session models.Session
	status := s.call(t, http.MethodPost, "/api/sessions/create", bearer(student.AccessToken), dto.CreateSessionRequest{
		MentorID:    profile.ID,
		Topic:       "Algebra",
		ScheduledAt: time.Now().Add(48 * time.Hour),
		Duration:    60,
		Price:       50,
	}, &session)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, models.SessionPending, session.Status)
	assert.Equal(t, mentor.User.ID, session.MentorID)

	// Only the mentor may decide.
	statusPath := "/api/sessions/requests/" + session.ID.String() + "/status"
	assert.Equal(t, http.StatusForbidden,
		s.call(t, http.MethodPatch, statusPath, bearer(student.AccessToken), map[string]string{"status": "accepted"}, nil))

	require.Equal(t, http.StatusOK,
		s.call(t, http.MethodPatch, statusPath, bearer(mentor.AccessToken), map[string]string{"status": "accepted"}, &session))
	assert.Equal(t, models.SessionAccepted, session.Status)
	assert.NotEmpty(t, session.MeetingLink)

	assert.Equal(t, http.StatusBadRequest,
		s.call(t, http.MethodPatch, statusPath, bearer(mentor.AccessToken), map[string]string{"status": "pending"}, nil))

	review := dto.CreateReviewRequest{SessionID: session.ID, Rating: 5, Comment: "Great explanations"}
	assert.Equal(t, http.StatusBadRequest,
		s.call(t, http.MethodPost, "/api/reviews/create", bearer(student.AccessToken), review, nil))

	require.Equal(t, http.StatusOK, s.call(t, http.MethodPost,
		"/api/admin/sessions/"+session.ID.String()+"/complete",
		map[string]string{"X-Admin-Token": adminToken}, nil, nil))

	assert.Equal(t, http.StatusBadRequest, s.call(t, http.MethodPatch,
		"/api/sessions/"+session.ID.String()+"/meeting-link", bearer(mentor.AccessToken),
		map[string]string{"meetingLink": "https://zoom.example/late"}, nil))

	require.Equal(t, http.StatusCreated,
		s.call(t, http.MethodPost, "/api/reviews/create", bearer(student.AccessToken), review, nil))
	assert.Equal(t, http.StatusConflict,
		s.call(t, http.MethodPost, "/api/reviews/create", bearer(student.AccessToken), review, nil))

	var public models.MentorProfile
	require.Equal(t, http.StatusOK,
		s.call(t, http.MethodGet, "/api/mentors/"+profile.ID.String(), nil, nil, &public))
	assert.Equal(t, 5.0, public.Rating)
	assert.Equal(t, 1, public.TotalReviews)

	var reviews []models.Review
	require.Equal(t, http.StatusOK,
		s.call(t, http.MethodGet, "/api/reviews/mentor/"+profile.ID.String(), nil, nil, &reviews))
	assert.Len(t, reviews, 1)

	// Messages addressed to the mentor profile reach the mentor user.
	require.Equal(t, http.StatusCreated, s.call(t, http.MethodPost, "/api/messages/send", bearer(student.AccessToken),
		dto.SendMessageRequest{ReceiverID: profile.ID, Content: "hi"}, nil))

	var unread dto.UnreadCountResponse
	require.Equal(t, http.StatusOK,
		s.call(t, http.MethodGet, "/api/messages/unread/count", bearer(mentor.AccessToken), nil, &unread))
	assert.Equal(t, int64(1), unread.Count)

	var convs []dto.Conversation
	require.Equal(t, http.StatusOK,
		s.call(t, http.MethodGet, "/api/messages/conversations", bearer(mentor.AccessToken), nil, &convs))
	require.Len(t, convs, 1)
	assert.Equal(t, student.User.ID, convs[0].CounterpartyID)
	assert.Equal(t, "hi", convs[0].LastMessageContent)
}
