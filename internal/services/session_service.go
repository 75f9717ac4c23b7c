package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/events"
	"github.com/mentorconnect/backend/internal/metrics"
	"github.com/mentorconnect/backend/internal/models"
	"github.com/mentorconnect/backend/internal/principal"
	"github.com/mentorconnect/backend/internal/repository"
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrNotPending          = errors.New("can only cancel pending requests")
	ErrNotSessionMentor    = errors.New("only the session's mentor can do this")
	ErrNotSessionStudent   = errors.New("only the session's student can do this")
	ErrNotSessionParty     = errors.New("not a party to this session")
	ErrMentorNotFound      = errors.New("mentor not found")
	ErrInvalidDuration     = errors.New("session duration is outside the allowed range")
	ErrInvalidPrice        = errors.New("price must not be negative")
	ErrSelfBooking         = errors.New("cannot book a session with yourself")
	ErrUnknownSessionView  = errors.New("unknown session view")
	ErrInvalidStatusFilter = errors.New("invalid status filter")
	ErrMeetingLinkClosed   = errors.New("meeting link can only be set on pending or accepted sessions")
)

// TransitionError reports a status change the session FSM does not allow.
type TransitionError struct {
	From models.SessionStatus
	To   models.SessionStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change session status from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

var transitions = map[models.SessionStatus][]models.SessionStatus{
	models.SessionPending:  {models.SessionAccepted, models.SessionRejected},
	models.SessionAccepted: {models.SessionCompleted},
}

// CanTransition reports whether from → to is an edge of the session FSM.
func CanTransition(from, to models.SessionStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func checkTransition(from, to models.SessionStatus) error {
	if !to.Valid() || !CanTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}

// SessionView selects which listing a party sees.
type SessionView string

const (
	ViewRequests SessionView = "requests"
	ViewSessions SessionView = "sessions"
	ViewUpcoming SessionView = "upcoming"
)

type SessionService struct {
	store          repository.Store
	settings       *SettingsService
	publisher      events.Publisher
	meetingBaseURL string
	now            func() time.Time
}

func NewSessionService(store repository.Store, settings *SettingsService, publisher events.Publisher, meetingBaseURL string) *SessionService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &SessionService{
		store:          store,
		settings:       settings,
		publisher:      publisher,
		meetingBaseURL: strings.TrimRight(meetingBaseURL, "/"),
		now:            time.Now,
	}
}

// MeetingLink is the generated video room URL for a session.
func (s *SessionService) MeetingLink(sessionID uuid.UUID) string {
	return fmt.Sprintf("%s/mentorconnect-%s", s.meetingBaseURL, sessionID)
}

// resolveMentor accepts a mentor user id or a mentor profile id and returns
// the mentor's user.
func (s *SessionService) resolveMentor(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		profile, perr := s.store.Mentors().FindByID(ctx, id)
		if errors.Is(perr, repository.ErrNotFound) {
			return nil, ErrMentorNotFound
		}
		if perr != nil {
			return nil, perr
		}
		user, err = s.store.Users().FindByID(ctx, profile.UserID)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMentorNotFound
	}
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleMentor {
		return nil, ErrMentorNotFound
	}
	return user, nil
}

func (s *SessionService) Create(ctx context.Context, student principal.Principal, req *dto.CreateSessionRequest) (*models.Session, error) {
	mentor, err := s.resolveMentor(ctx, req.MentorID)
	if err != nil {
		return nil, err
	}
	if mentor.ID == student.UserID {
		return nil, ErrSelfBooking
	}

	cfg, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	if req.Duration < cfg.Session.MinSessionDuration || req.Duration > cfg.Session.MaxSessionDuration {
		return nil, fmt.Errorf("%w: must be between %d and %d minutes",
			ErrInvalidDuration, cfg.Session.MinSessionDuration, cfg.Session.MaxSessionDuration)
	}
	if req.Price < 0 {
		return nil, ErrInvalidPrice
	}

	session := models.Session{
		StudentID:     student.UserID,
		MentorID:      mentor.ID,
		Topic:         strings.TrimSpace(req.Topic),
		Description:   req.Description,
		ScheduledAt:   req.ScheduledAt.UTC(),
		Duration:      req.Duration,
		Price:         req.Price,
		Notes:         req.Notes,
		Status:        models.SessionPending,
		PaymentStatus: models.PaymentPending,
	}
	if err := s.store.Sessions().Create(ctx, &session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("session requested", "session_id", session.ID, "student_id", session.StudentID, "mentor_id", session.MentorID)
	metrics.SessionTransitions.WithLabelValues(string(models.SessionPending)).Inc()
	s.publisher.PublishSession(events.SubjectSessionRequested, &session)
	return s.Get(ctx, student, session.ID)
}

// Get returns a session visible to one of its parties or an admin.
func (s *SessionService) Get(ctx context.Context, actor principal.Principal, sessionID uuid.UUID) (*models.Session, error) {
	session, err := s.find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && session.StudentID != actor.UserID && session.MentorID != actor.UserID {
		return nil, ErrNotSessionParty
	}
	return session, nil
}

// Transition moves a session along the FSM on behalf of its mentor. Accepting
// without a meeting link generates one.
func (s *SessionService) Transition(ctx context.Context, actor principal.Principal, sessionID uuid.UUID, to models.SessionStatus, meetingLink string) (*models.Session, error) {
	session, err := s.find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.MentorID != actor.UserID {
		return nil, ErrNotSessionMentor
	}
	return s.apply(ctx, session, to, meetingLink)
}

// Complete marks an accepted session as held. It is driven by admins and the
// operator CLI rather than by either party.
func (s *SessionService) Complete(ctx context.Context, sessionID uuid.UUID) (*models.Session, error) {
	session, err := s.find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, session, models.SessionCompleted, "")
}

// CompleteDue completes every accepted session whose scheduled end has
// passed and returns how many were completed.
func (s *SessionService) CompleteDue(ctx context.Context) (int, error) {
	accepted, err := s.store.Sessions().List(ctx, repository.SessionQuery{
		Statuses: []models.SessionStatus{models.SessionAccepted},
		Order:    repository.OrderScheduledAsc,
	})
	if err != nil {
		return 0, err
	}

	now := s.now()
	done := 0
	for i := range accepted {
		if accepted[i].EndsAt().After(now) {
			continue
		}
		if _, err := s.apply(ctx, &accepted[i], models.SessionCompleted, ""); err != nil {
			return done, fmt.Errorf("session %s: %w", accepted[i].ID, err)
		}
		done++
	}
	return done, nil
}

func (s *SessionService) apply(ctx context.Context, session *models.Session, to models.SessionStatus, meetingLink string) (*models.Session, error) {
	if err := checkTransition(session.Status, to); err != nil {
		return nil, err
	}

	if meetingLink != "" {
		if to != models.SessionAccepted {
			return nil, ErrMeetingLinkClosed
		}
		session.MeetingLink = meetingLink
	}
	session.Status = to
	if to == models.SessionAccepted && session.MeetingLink == "" {
		session.MeetingLink = s.MeetingLink(session.ID)
	}
	if err := s.store.Sessions().Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	slog.Info("session status changed", "session_id", session.ID, "status", to)
	metrics.SessionTransitions.WithLabelValues(string(to)).Inc()
	s.publisher.PublishSession(subjectFor(to), session)
	return session, nil
}

func subjectFor(status models.SessionStatus) string {
	switch status {
	case models.SessionAccepted:
		return events.SubjectSessionAccepted
	case models.SessionRejected:
		return events.SubjectSessionRejected
	case models.SessionCompleted:
		return events.SubjectSessionCompleted
	}
	return events.SubjectSessionRequested
}

// HoldsMeetingLink reports whether the meeting link of a session in status
// may still change.
func HoldsMeetingLink(status models.SessionStatus) bool {
	return status == models.SessionPending || status == models.SessionAccepted
}

// UpdateMeetingLink replaces the link of a pending or accepted session the
// actor mentors.
func (s *SessionService) UpdateMeetingLink(ctx context.Context, actor principal.Principal, sessionID uuid.UUID, link string) (*models.Session, error) {
	session, err := s.find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.MentorID != actor.UserID {
		return nil, ErrNotSessionMentor
	}
	if !HoldsMeetingLink(session.Status) {
		return nil, ErrMeetingLinkClosed
	}
	session.MeetingLink = link
	if err := s.store.Sessions().Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	return session, nil
}

// Cancel deletes a pending request on behalf of its student.
func (s *SessionService) Cancel(ctx context.Context, actor principal.Principal, sessionID uuid.UUID, reason string) error {
	session, err := s.find(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.StudentID != actor.UserID {
		return ErrNotSessionStudent
	}
	if session.Status != models.SessionPending {
		return ErrNotPending
	}
	if err := s.store.Sessions().Delete(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to cancel session: %w", err)
	}

	slog.Info("session cancelled", "session_id", sessionID, "reason", reason)
	session.CancellationReason = reason
	s.publisher.PublishSession(events.SubjectSessionCancelled, session)
	return nil
}

// ListByParty lists the sessions where the actor is the mentor (asMentor) or
// the student. An empty status or "all" disables the status filter for the
// requests view; the sessions view defaults to accepted.
func (s *SessionService) ListByParty(ctx context.Context, actor principal.Principal, asMentor bool, view SessionView, status string) ([]models.Session, error) {
	q := repository.SessionQuery{}
	if asMentor {
		q.MentorID = &actor.UserID
	} else {
		q.StudentID = &actor.UserID
	}

	switch view {
	case ViewRequests:
		q.Order = repository.OrderCreatedDesc
		if status != "" && status != "all" {
			q.Statuses = []models.SessionStatus{models.SessionStatus(status)}
		}
	case ViewSessions:
		q.Order = repository.OrderScheduledAsc
		switch status {
		case "":
			q.Statuses = []models.SessionStatus{models.SessionAccepted}
		case "all":
		default:
			q.Statuses = []models.SessionStatus{models.SessionStatus(status)}
		}
	case ViewUpcoming:
		now := s.now()
		q.Order = repository.OrderScheduledAsc
		q.Statuses = []models.SessionStatus{models.SessionAccepted}
		q.ScheduledAfter = &now
	default:
		return nil, ErrUnknownSessionView
	}
	for _, st := range q.Statuses {
		if !st.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidStatusFilter, st)
		}
	}

	return s.store.Sessions().List(ctx, q)
}

// Upcoming lists accepted future sessions for the actor in either role.
func (s *SessionService) Upcoming(ctx context.Context, actor principal.Principal) ([]models.Session, error) {
	return s.ListByParty(ctx, actor, actor.IsMentor(), ViewUpcoming, "")
}

// ListAll is the admin listing across all parties.
func (s *SessionService) ListAll(ctx context.Context, status string) ([]models.Session, error) {
	q := repository.SessionQuery{Order: repository.OrderCreatedDesc}
	if status != "" && status != "all" {
		st := models.SessionStatus(status)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidStatusFilter, status)
		}
		q.Statuses = []models.SessionStatus{st}
	}
	return s.store.Sessions().List(ctx, q)
}

func (s *SessionService) find(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	session, err := s.store.Sessions().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	return session, err
}
