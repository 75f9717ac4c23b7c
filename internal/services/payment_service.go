package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/models"
	"github.com/mentorconnect/backend/internal/repository"
)

const (
	PaymentSucceeded = "payment.succeeded"
	PaymentRefunded  = "payment.refunded"
)

// PaymentService applies payment provider webhooks to sessions.
type PaymentService struct {
	store repository.Store
}

func NewPaymentService(store repository.Store) *PaymentService {
	return &PaymentService{store: store}
}

func (s *PaymentService) HandleWebhookEvent(ctx context.Context, event *dto.PaymentWebhook) error {
	switch event.Type {
	case PaymentSucceeded:
		return s.setStatus(ctx, event, models.PaymentCompleted)
	case PaymentRefunded:
		return s.setStatus(ctx, event, models.PaymentRefunded)
	default:
		slog.Debug("ignoring payment event", "type", event.Type, "id", event.ID)
		return nil
	}
}

func (s *PaymentService) setStatus(ctx context.Context, event *dto.PaymentWebhook, status string) error {
	err := s.store.Sessions().UpdatePaymentStatus(ctx, event.Data.SessionID, status)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrSessionNotFound
	}
	if err != nil {
		return err
	}
	slog.Info("payment status updated",
		"session_id", event.Data.SessionID,
		"status", status,
		"transaction_id", event.Data.TransactionID,
	)
	return nil
}
