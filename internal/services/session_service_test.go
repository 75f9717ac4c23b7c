package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.SessionStatus
		ok       bool
	}{
		{models.SessionPending, models.SessionAccepted, true},
		{models.SessionPending, models.SessionRejected, true},
		{models.SessionAccepted, models.SessionCompleted, true},
		{models.SessionPending, models.SessionCompleted, false},
		{models.SessionAccepted, models.SessionRejected, false},
		{models.SessionRejected, models.SessionAccepted, false},
		{models.SessionCompleted, models.SessionPending, false},
		{models.SessionCompleted, models.SessionAccepted, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to))
		})
	}
}

func TestSessionScenario_BookAcceptCompleteReview(t *testing.T) {
	f := newFixture(t)
	student, _ := f.addUser(t, models.RoleUser, "Sam", "Student")
	mentor, profile := f.addUser(t, models.RoleMentor, "Maya", "Mentor")

	s := f.book(t, student, mentor.UserID, time.Now().Add(-3*time.Hour))
	assert.Equal(t, models.SessionPending, s.Status)
	assert.Equal(t, models.PaymentPending, s.PaymentStatus)

	s, err := f.sessions.Transition(f.ctx, mentor, s.ID, models.SessionAccepted, "")
	require.NoError(t, err)
	assert.Equal(t, "https://meet.jit.si/mentorconnect-"+s.ID.String(), s.MeetingLink)

	s, err = f.sessions.Complete(f.ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, s.Status)

	_, err = f.reviews.Create(f.ctx, student, &dto.CreateReviewRequest{SessionID: s.ID, Rating: 4, Comment: "Helpful"})
	require.NoError(t, err)
	got := f.profile(t, profile.ID)
	assert.Equal(t, 4.0, got.Rating)
	assert.Equal(t, 1, got.TotalReviews)

	second := f.completed(t, student, mentor)
	_, err = f.reviews.Create(f.ctx, student, &dto.CreateReviewRequest{SessionID: second.ID, Rating: 2, Comment: "Too short"})
	require.NoError(t, err)
	got = f.profile(t, profile.ID)
	assert.Equal(t, 3.0, got.Rating)
	assert.Equal(t, 2, got.TotalReviews)
}

func TestCreate_AcceptsMentorProfileID(t *testing.T) {
	f := newFixture(t)
	student, _ := f.addUser(t, models.RoleUser, "Sam", "Student")
	mentor, profile := f.addUser(t, models.RoleMentor, "Maya", "Mentor")

	s := f.book(t, student, profile.ID, time.Now().Add(24*time.Hour))
	assert.Equal(t, mentor.UserID, s.MentorID)
	require.NotNil(t, s.Mentor)
	assert.Equal(t, "Maya", s.Mentor.FirstName)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	student, _ := f.addUser(t, models.RoleUser, "Sam", "Student")
	other, _ := f.addUser(t, models.RoleUser, "Olly", "Other")
	mentor, _ := f.addUser(t, models.RoleMentor, "Maya", "Mentor")

	req := func(mentorID uuid.UUID, duration int, price float64) *dto.CreateSessionRequest {
		return &dto.CreateSessionRequest{MentorID: mentorID, Topic: "Go", ScheduledAt: time.Now(), Duration: duration, Price: price}
	}

	_, err := f.sessions.Create(f.ctx, student, req(other.UserID, 60, 10))
	assert.ErrorIs(t, err, ErrMentorNotFound)

	_, err = f.sessions.Create(f.ctx, student, req(uuid.New(), 60, 10))
	assert.ErrorIs(t, err, ErrMentorNotFound)

	_, err = f.sessions.Create(f.ctx, student, req(mentor.UserID, 15, 10))
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = f.sessions.Create(f.ctx, student, req(mentor.UserID, 180, 10))
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = f.sessions.Create(f.ctx, student, req(mentor.UserID, 60, -1))
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = f.sessions.Create(f.ctx, mentor, req(mentor.UserID, 60, 10))
	assert.ErrorIs(t, err, ErrSelfBooking)
}

func TestTransition_Guards(t *testing.T) {
	f := newFixture(t)
	student, _ := f.addUser(t, models.RoleUser, "Sam", "Student")
	mentor, _ := f.addUser(t, models.RoleMentor, "Maya", "Mentor")
	s := f.book(t, student, mentor.UserID, time.Now().Add(time.Hour))

	_, err := f.sessions.Transition(f.ctx, student, s.ID, models.SessionAccepted, "")
	assert.ErrorIs(t, err, ErrNotSessionMentor)

	_, err = f.sessions.Transition(f.ctx, mentor, uuid.New(), models.SessionAccepted, "")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = f.sessions.Transition(f.ctx, mentor, s.ID, models.SessionCompleted, "")
	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, models.SessionPending, te.From)
	assert.Equal(t, models.SessionCompleted, te.To)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	s, err = f.sessions.Transition(f.ctx, mentor, s.ID, models.SessionAccepted, "https://zoom.example/room")
	require.NoError(t, err)
	assert.Equal(t, "https://zoom.example/room", s.MeetingLink)

	_, err = f.sessions.Complete(f.ctx, s.ID)
	require.NoError(t, err)
	_, err = f.sessions.Transition(f.ctx, mentor, s.ID, models.SessionPending, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := f.store.Sessions().FindByID(f.ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, stored.Status)
}

func TestMeetingLink_OnlyWhileOpen(t *testing.T) {
	f := newFixture(t)
	student, _ := f.addUser(t, models.RoleUser, "Sam", "Student")
	mentor, _ := f.addUser(t, models.RoleMentor, "Maya", "Mentor")

	assert.True(t, HoldsMeetingLink(models.SessionPending))
	assert.True(t, HoldsMeetingLink(models.SessionAccepted))
	assert.False(t, HoldsMeetingLink(models.SessionRejected))
	assert.False(t, HoldsMeetingLink(models.SessionCompleted))

	t.Run("pending", func(t *testing.T) {
		s := f.book(t, student, mentor.UserID, time.Now().Add(time.Hour))
		s, err := f.sessions.UpdateMeetingLink(f.ctx, mentor, s.ID, "https://zoom.example/early")
		require.NoError(t, err)
		assert.Equal(t, "https://zoom.example/early", s.MeetingLink)

		_, err = f.sessions.UpdateMeetingLink(f.ctx, student, s.ID, "https://zoom.example/x")
		assert.ErrorIs(t, err, ErrNotSessionMentor)

		// Accepting keeps the link set while pending.
		s, err = f.sessions.Transition(f.ctx, mentor, s.ID, models.SessionAccepted, "")
		require.NoError(t, err)
		assert.Equal(t, "https://zoom.example/early", s.MeetingLink)

		s, err = f.sessions.UpdateMeetingLink(f.ctx, mentor, s.ID, "https://zoom.example/moved")
		require.NoError(t, err)
		assert.Equal(t, "https://zoom.example/moved", s.MeetingLink)
	})

	t.Run("rejected", func(t *testing.T) {
		s := f.book(t, student, mentor.UserID, time.Now().Add(time.Hour))
		_, err := f.sessions.Transition(f.ctx, mentor, s.ID, models.SessionRejected, "https://zoom.example/room")
		assert.ErrorIs(t, err, ErrMeetingLinkClosed)

		stored, err := f.store.Sessions().FindByID(f.ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SessionPending, stored.Status)
		assert.Empty(t, stored.MeetingLink)

		_, err = f.sessions.Transition(f.ctx, mentor, s.ID, models.SessionRejected, "")
		require.NoError(t, err)
		_, err = f.sessions.UpdateMeetingLink(f.ctx, mentor, s.ID, "https://zoom.example/late")
		assert.ErrorIs(t, err, ErrMeetingLinkClosed)

		stored, err = f.store.Sessions().FindByID(f.ctx, s.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.MeetingLink)
	})

	t.Run("completed", func(t *testing.T) {
		s := f.completed(t, student, mentor)
		before := s.MeetingLink
		_, err := f.sessions.UpdateMeetingLink(f.ctx, mentor, s.ID, "https://zoom.example/late")
		assert.ErrorIs(t, err, ErrMeetingLinkClosed)

		stored, err := f.store.Sessions().FindByID(f.ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, before, stored.MeetingLink)
	})
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	student, _ := f.addUser(t, models.RoleUser, "Sam", "Student")
	mentor, _ := f.addUser(t, models.RoleMentor, "Maya", "Mentor")

	t.Run("only pending", func(t *testing.T) {
		s := f.book(t, student, mentor.UserID, time.Now().Add(time.Hour))
		_, err := f.sessions.Transition(f.ctx, mentor, s.ID, models.SessionAccepted, "")
		require.NoError(t, err)

		err = f.sessions.Cancel(f.ctx, student, s.ID, "")
		assert.ErrorIs(t, err, ErrNotPending)

		stored, err := f.store.Sessions().FindByID(f.ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SessionAccepted, stored.Status)
	})

	t.Run("only student", func(t *testing.T) {
		s := f.book(t, student, mentor.UserID, time.Now().Add(time.Hour))
		err := f.sessions.Cancel(f.ctx, mentor, s.ID, "")
		assert.ErrorIs(t, err, ErrNotSessionStudent)
	})

	t.Run("deletes pending", func(t *testing.T) {
		s := f.book(t, student, mentor.UserID, time.Now().Add(time.Hour))
		require.NoError(t, f.sessions.Cancel(f.ctx, student, s.ID, "changed plans"))

		_, err := f.store.Sessions().FindByID(f.ctx, s.ID)
		assert.Error(t, err)
		assert.ErrorIs(t, f.sessions.Cancel(f.ctx, student, s.ID, ""), ErrSessionNotFound)
	})
}

func TestListByParty_Views(t *testing.T) {
	f := newFixture(t)
	student, _ := f.addUser(t, models.RoleUser, "Sam", "Student")
	mentor, _ := f.addUser(t, models.RoleMentor, "Maya", "Mentor")
	now := time.Now()

	later := f.book(t, student, mentor.UserID, now.Add(72*time.Hour))
	sooner := f.book(t, student, mentor.UserID, now.Add(24*time.Hour))
	past := f.book(t, student, mentor.UserID, now.Add(-24*time.Hour))
	pending := f.book(t, student, mentor.UserID, now.Add(48*time.Hour))
	for _, s := range []uuid.UUID{later.ID, sooner.ID, past.ID} {
		_, err := f.sessions.Transition(f.ctx, mentor, s, models.SessionAccepted, "")
		require.NoError(t, err)
	}

	requests, err := f.sessions.ListByParty(f.ctx, mentor, true, ViewRequests, "all")
	require.NoError(t, err)
	require.Len(t, requests, 4)
	assert.Equal(t, pending.ID, requests[0].ID)

	onlyPending, err := f.sessions.ListByParty(f.ctx, student, false, ViewRequests, "pending")
	require.NoError(t, err)
	require.Len(t, onlyPending, 1)

	sessions, err := f.sessions.ListByParty(f.ctx, student, false, ViewSessions, "")
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, past.ID, sessions[0].ID)
	assert.Equal(t, sooner.ID, sessions[1].ID)
	assert.Equal(t, later.ID, sessions[2].ID)

	upcoming, err := f.sessions.Upcoming(f.ctx, mentor)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, sooner.ID, upcoming[0].ID)

	_, err = f.sessions.ListByParty(f.ctx, student, false, ViewRequests, "bogus")
	assert.ErrorIs(t, err, ErrInvalidStatusFilter)
}

func TestCompleteDue(t *testing.T) {
	f := newFixture(t)
	student, _ := f.addUser(t, models.RoleUser, "Sam", "Student")
	mentor, _ := f.addUser(t, models.RoleMentor, "Maya", "Mentor")
	now := time.Now()

	over := f.book(t, student, mentor.UserID, now.Add(-2*time.Hour))
	running := f.book(t, student, mentor.UserID, now.Add(-30*time.Minute))
	for _, id := range []uuid.UUID{over.ID, running.ID} {
		_, err := f.sessions.Transition(f.ctx, mentor, id, models.SessionAccepted, "")
		require.NoError(t, err)
	}
	f.sessions.now = func() time.Time { return now }

	n, err := f.sessions.CompleteDue(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.store.Sessions().FindByID(f.ctx, over.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, got.Status)
	got, err = f.store.Sessions().FindByID(f.ctx, running.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionAccepted, got.Status)
}

func TestGet_VisibleToPartiesAndAdmins(t *testing.T) {
	f := newFixture(t)
	student, _ := f.addUser(t, models.RoleUser, "Sam", "Student")
	mentor, _ := f.addUser(t, models.RoleMentor, "Maya", "Mentor")
	stranger, _ := f.addUser(t, models.RoleUser, "Stan", "Stranger")
	admin, _ := f.addUser(t, models.RoleAdmin, "Ada", "Admin")
	s := f.book(t, student, mentor.UserID, time.Now().Add(time.Hour))

	_, err := f.sessions.Get(f.ctx, mentor, s.ID)
	assert.NoError(t, err)
	_, err = f.sessions.Get(f.ctx, admin, s.ID)
	assert.NoError(t, err)
	_, err = f.sessions.Get(f.ctx, stranger, s.ID)
	assert.ErrorIs(t, err, ErrNotSessionParty)
}
