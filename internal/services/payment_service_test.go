package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/models"
)

func TestHandleWebhookEvent(t *testing.T) {
	f := newFixture(t)
	student, _ := f.addUser(t, models.RoleUser, "Sam", "Student")
	mentor, _ := f.addUser(t, models.RoleMentor, "Maya", "Mentor")
	sess := f.book(t, student, mentor.UserID, time.Now().Add(24*time.Hour))

	event := func(typ string, id uuid.UUID) *dto.PaymentWebhook {
		return &dto.PaymentWebhook{ID: "evt_1", Type: typ, Data: dto.PaymentEventData{SessionID: id, TransactionID: "tx_1"}}
	}

	require.NoError(t, f.payments.HandleWebhookEvent(f.ctx, event(PaymentSucceeded, sess.ID)))
	got, err := f.store.Sessions().FindByID(f.ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, got.PaymentStatus)
	assert.Equal(t, models.SessionPending, got.Status)

	require.NoError(t, f.payments.HandleWebhookEvent(f.ctx, event(PaymentRefunded, sess.ID)))
	got, err = f.store.Sessions().FindByID(f.ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, got.PaymentStatus)

	assert.NoError(t, f.payments.HandleWebhookEvent(f.ctx, event("payment.pending_review", sess.ID)))
	assert.ErrorIs(t, f.payments.HandleWebhookEvent(f.ctx, event(PaymentSucceeded, uuid.New())), ErrSessionNotFound)
}
