package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/models"
)

func TestMentorUpdateAndSearch(t *testing.T) {
	f := newFixture(t)
	maya, _ := f.addUser(t, models.RoleMentor, "Maya", "Mentor")
	f.addUser(t, models.RoleMentor, "Omar", "Other")

	profile, err := f.mentors.UpdateOwn(f.ctx, maya, &dto.UpdateMentorProfileRequest{
		Bio:          ptr("  Ten years of teaching calculus  "),
		Expertise:    &[]string{"Math", " Math ", "", "Physics"},
		Availability: &[]models.AvailabilitySlot{{Day: "Monday", Time: "18:00"}},
		HourlyRate:   ptr(80.0),
		PhoneNumber:  ptr("+1 555 0100"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ten years of teaching calculus", profile.Bio)
	assert.Equal(t, []string{"Math", "Physics"}, []string(profile.Expertise))
	assert.Equal(t, 80.0, profile.HourlyRate)
	require.NotNil(t, profile.User)
	assert.Equal(t, "+1 555 0100", profile.User.PhoneNumber)

	_, err = f.mentors.UpdateOwn(f.ctx, maya, &dto.UpdateMentorProfileRequest{HourlyRate: ptr(-1.0)})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	byTag, err := f.mentors.List(f.ctx, &dto.MentorQuery{Expertise: "Physics"})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, maya.UserID, byTag[0].UserID)

	byName, err := f.mentors.List(f.ctx, &dto.MentorQuery{Search: "omar"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Omar Other", byName[0].User.FullName())

	cheap, err := f.mentors.List(f.ctx, &dto.MentorQuery{MaxPrice: ptr(60.0)})
	require.NoError(t, err)
	require.Len(t, cheap, 1)

	student, _ := f.addUser(t, models.RoleUser, "Sam", "Student")
	_, err = f.mentors.GetOwn(f.ctx, student)
	assert.ErrorIs(t, err, ErrMentorProfileMissing)
}

func TestMentorGetAndVerify(t *testing.T) {
	f := newFixture(t)
	mentor, profile := f.addUser(t, models.RoleMentor, "Maya", "Mentor")

	byUser, err := f.mentors.Get(f.ctx, mentor.UserID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, byUser.ID)

	_, err = f.mentors.Get(f.ctx, uuid.New())
	assert.ErrorIs(t, err, ErrMentorNotFound)

	verified, err := f.mentors.Verify(f.ctx, profile.ID)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.True(t, f.profile(t, profile.ID).IsVerified)
}

func TestMentorEarnings(t *testing.T) {
	f := newFixture(t)
	student, _ := f.addUser(t, models.RoleUser, "Sam", "Student")
	mentor, _ := f.addUser(t, models.RoleMentor, "Maya", "Mentor")

	paid := f.completed(t, student, mentor)
	f.completed(t, student, mentor)
	refunded := f.completed(t, student, mentor)

	require.NoError(t, f.payments.HandleWebhookEvent(f.ctx, &dto.PaymentWebhook{
		Type: PaymentSucceeded,
		Data: dto.PaymentEventData{SessionID: paid.ID},
	}))
	require.NoError(t, f.payments.HandleWebhookEvent(f.ctx, &dto.PaymentWebhook{
		Type: PaymentRefunded,
		Data: dto.PaymentEventData{SessionID: refunded.ID},
	}))

	earnings, err := f.mentors.Earnings(f.ctx, mentor)
	require.NoError(t, err)
	assert.Equal(t, 2, earnings.CompletedSessions)
	assert.Equal(t, 100.0, earnings.GrossEarnings)
	assert.Equal(t, 10.0, earnings.PlatformFee)
	assert.Equal(t, 90.0, earnings.NetEarnings)
	assert.Equal(t, 45.0, earnings.CompletedPayouts)
	assert.Equal(t, 45.0, earnings.PendingPayouts)
	assert.Equal(t, "USD", earnings.Currency)
}
