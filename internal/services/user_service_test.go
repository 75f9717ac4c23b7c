package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/models"
	"github.com/mentorconnect/backend/internal/principal"
	"github.com/mentorconnect/backend/internal/repository"
)

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	sam, _ := f.addUser(t, models.RoleUser, "Sam", "Student")

	user, err := f.users.UpdateProfile(f.ctx, sam, &dto.UpdateProfileRequest{LastName: ptr(" Smith ")})
	require.NoError(t, err)
	assert.Equal(t, "Smith", user.LastName)
	assert.False(t, user.ProfileCompleted)

	user, err = f.users.UpdateProfile(f.ctx, sam, &dto.UpdateProfileRequest{PhoneNumber: ptr("555 0100")})
	require.NoError(t, err)
	assert.True(t, user.ProfileCompleted)

	_, err = f.users.Profile(f.ctx, principal.Principal{UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestChangeRole_PromotionCreatesProfile(t *testing.T) {
	f := newFixture(t)
	sam, _ := f.addUser(t, models.RoleUser, "Sam", "Student")

	_, err := f.users.ChangeRole(f.ctx, sam.UserID, "owner")
	assert.ErrorIs(t, err, ErrInvalidRole)
	_, err = f.users.ChangeRole(f.ctx, uuid.New(), models.RoleMentor)
	assert.ErrorIs(t, err, ErrUserNotFound)

	user, err := f.users.ChangeRole(f.ctx, sam.UserID, models.RoleMentor)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMentor, user.Role)
	first, err := f.store.Mentors().FindByUserID(f.ctx, sam.UserID)
	require.NoError(t, err)

	_, err = f.users.ChangeRole(f.ctx, sam.UserID, models.RoleUser)
	require.NoError(t, err)
	_, err = f.users.ChangeRole(f.ctx, sam.UserID, models.RoleMentor)
	require.NoError(t, err)
	again, err := f.store.Mentors().FindByUserID(f.ctx, sam.UserID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
}

func TestDeleteUser_Cascades(t *testing.T) {
	f := newFixture(t)
	admin, _ := f.addUser(t, models.RoleAdmin, "Ada", "Admin")
	other, _ := f.addUser(t, models.RoleUser, "Olly", "Other")
	resp, err := f.auth.Register(f.ctx, register(models.RoleMentor, "maya@example.com"))
	require.NoError(t, err)
	mentorID := resp.User.ID
	require.NoError(t, f.moderation.BlockUser(f.ctx, other.UserID, mentorID))

	assert.ErrorIs(t, f.users.Delete(f.ctx, admin, admin.UserID), ErrSelfDelete)
	assert.ErrorIs(t, f.users.Delete(f.ctx, admin, uuid.New()), ErrUserNotFound)

	require.NoError(t, f.users.Delete(f.ctx, admin, mentorID))

	_, err = f.store.Users().FindByID(f.ctx, mentorID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.store.Mentors().FindByUserID(f.ctx, mentorID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	blocked, err := f.moderation.Blocked(f.ctx, other.UserID, mentorID)
	require.NoError(t, err)
	assert.False(t, blocked)
	_, err = f.auth.Refresh(f.ctx, &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestOverview(t *testing.T) {
	f := newFixture(t)
	student, _ := f.addUser(t, models.RoleUser, "Sam", "Student")
	mentor, _ := f.addUser(t, models.RoleMentor, "Maya", "Mentor")
	f.addUser(t, models.RoleAdmin, "Ada", "Admin")

	f.completed(t, student, mentor)
	f.book(t, student, mentor.UserID, time.Now().Add(48*time.Hour))

	out, err := f.users.Overview(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.TotalUsers)
	assert.Equal(t, int64(1), out.UsersByRole[models.RoleMentor])
	assert.Equal(t, int64(2), out.TotalSessions)
	assert.Equal(t, int64(1), out.SessionsByStatus[string(models.SessionCompleted)])
	assert.Equal(t, int64(1), out.SessionsByStatus[string(models.SessionPending)])
	assert.Equal(t, 50.0, out.GrossRevenue)
	assert.Equal(t, 5.0, out.PlatformRevenue)
}
