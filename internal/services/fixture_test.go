package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mentorconnect/backend/internal/config"
	"github.com/mentorconnect/backend/internal/database/dbtest"
	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/events"
	"github.com/mentorconnect/backend/internal/models"
	"github.com/mentorconnect/backend/internal/principal"
	"github.com/mentorconnect/backend/internal/repository"
)

// fixture wires every service against a fresh sqlite database.
type fixture struct {
	ctx        context.Context
	store      *repository.GormStore
	messages   *repository.GormMessages
	settings   *SettingsService
	moderation *ModerationService
	ratings    *RatingAggregator
	sessions   *SessionService
	reviews    *ReviewService
	chat       *MessageService
	mentors    *MentorService
	users      *UserService
	payments   *PaymentService
	auth       *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, msgs := dbtest.Store(t)
	settings := NewSettingsService(store, config.SettingsPatch{})
	moderation := NewModerationService(store)
	ratings := NewRatingAggregator(store)
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
		AdminEmails:      "root@example.com",
	}

	return &fixture{
		ctx:        context.Background(),
		store:      store,
		messages:   msgs,
		settings:   settings,
		moderation: moderation,
		ratings:    ratings,
		sessions:   NewSessionService(store, settings, events.Noop{}, "https://meet.jit.si"),
		reviews:    NewReviewService(store, ratings, moderation),
		chat:       NewMessageService(store, msgs, moderation),
		mentors:    NewMentorService(store, settings),
		users:      NewUserService(store, settings),
		payments:   NewPaymentService(store),
		auth:       NewAuthService(store, cfg, settings),
	}
}

// addUser stores a user with the given role. Mentors also get a profile,
// returned as the second value.
func (f *fixture) addUser(t *testing.T, role, first, last string) (principal.Principal, *models.MentorProfile) {
	t.Helper()
	u := &models.User{
		FirstName: first,
		LastName:  last,
		Email:     first + "." + last + "@example.com",
		Role:      role,
	}
	require.NoError(t, f.store.Users().Create(f.ctx, u))
	p := principal.Principal{UserID: u.ID, Email: u.Email, Role: role}
	if role != models.RoleMentor {
		return p, nil
	}
	profile := &models.MentorProfile{UserID: u.ID, HourlyRate: 50}
	require.NoError(t, f.store.Mentors().Create(f.ctx, profile))
	return p, profile
}

func (f *fixture) profile(t *testing.T, id uuid.UUID) *models.MentorProfile {
	t.Helper()
	p, err := f.store.Mentors().FindByID(f.ctx, id)
	require.NoError(t, err)
	return p
}

func (f *fixture) book(t *testing.T, student principal.Principal, mentorID uuid.UUID, at time.Time) *models.Session {
	t.Helper()
	s, err := f.sessions.Create(f.ctx, student, &dto.CreateSessionRequest{
		MentorID:    mentorID,
		Topic:       "Algebra help",
		ScheduledAt: at,
		Duration:    60,
		Price:       50,
	})
	require.NoError(t, err)
	return s
}

// completed books a session and drives it through accepted to completed.
func (f *fixture) completed(t *testing.T, student, mentor principal.Principal) *models.Session {
	t.Helper()
	s := f.book(t, student, mentor.UserID, time.Now().Add(-2*time.Hour))
	_, err := f.sessions.Transition(f.ctx, mentor, s.ID, models.SessionAccepted, "")
	require.NoError(t, err)
	s, err = f.sessions.Complete(f.ctx, s.ID)
	require.NoError(t, err)
	return s
}

func storeFor(t *testing.T) repository.Store {
	t.Helper()
	store, _ := dbtest.Store(t)
	return store
}
