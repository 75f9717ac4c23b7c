package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/metrics"
	"github.com/mentorconnect/backend/internal/models"
	"github.com/mentorconnect/backend/internal/principal"
	"github.com/mentorconnect/backend/internal/repository"
)

var (
	ErrEmptyMessage      = errors.New("message content is required")
	ErrMessageBlocked    = errors.New("messaging between these users is blocked")
	ErrReceiverNotFound  = errors.New("receiver not found")
	ErrMessageToSelf     = errors.New("cannot message yourself")
	ErrMessageNotAllowed = errors.New("message contains inappropriate language")
)

type MessageService struct {
	store      repository.Store
	messages   repository.MessageRepository
	moderation *ModerationService
}

func NewMessageService(store repository.Store, messages repository.MessageRepository, moderation *ModerationService) *MessageService {
	return &MessageService{store: store, messages: messages, moderation: moderation}
}

func partyType(role string) string {
	if role == models.RoleUser {
		return models.PartyTypeUser
	}
	return models.PartyTypeMentor
}

// resolveReceiver maps a receiver id to a user. Mentor profile ids are
// accepted and replaced by the owning user id.
func (s *MessageService) resolveReceiver(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	profile, err := s.store.Mentors().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrReceiverNotFound
	}
	if err != nil {
		return nil, err
	}
	if profile.User != nil {
		return profile.User, nil
	}
	user, err = s.store.Users().FindByID(ctx, profile.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrReceiverNotFound
	}
	return user, err
}

func (s *MessageService) Send(ctx context.Context, sender principal.Principal, req *dto.SendMessageRequest) (*models.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if s.moderation.ContainsProfanity(content) {
		return nil, ErrMessageNotAllowed
	}

	receiver, err := s.resolveReceiver(ctx, req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if receiver.ID == sender.UserID {
		return nil, ErrMessageToSelf
	}

	blocked, err := s.moderation.Blocked(ctx, sender.UserID, receiver.ID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrMessageBlocked
	}

	msg := models.Message{
		SenderID:     sender.UserID,
		ReceiverID:   receiver.ID,
		Content:      content,
		SenderType:   partyType(sender.Role),
		ReceiverType: partyType(receiver.Role),
	}
	if err := s.messages.Create(ctx, &msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	metrics.MessagesSent.Inc()
	return &msg, nil
}

// Conversations derives one entry per counterparty from a single scan of the
// caller's messages, newest first. The first message seen for a counterparty
// is its latest one.
func (s *MessageService) Conversations(ctx context.Context, caller principal.Principal) ([]dto.Conversation, error) {
	if caller.Role == models.RoleMentor {
		if _, err := s.store.Mentors().FindByUserID(ctx, caller.UserID); errors.Is(err, repository.ErrNotFound) {
			return []dto.Conversation{}, nil
		} else if err != nil {
			return nil, err
		}
	}

	msgs, err := s.messages.ListForUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	party := partyFor(s.store, caller.Role)
	seen := make(map[uuid.UUID]bool)
	out := make([]dto.Conversation, 0)
	for _, m := range msgs {
		other := m.SenderID
		if m.SenderID == caller.UserID {
			other = m.ReceiverID
		}
		if seen[other] {
			continue
		}
		seen[other] = true

		name, err := party.DisplayName(ctx, other)
		if errors.Is(err, errPartyUnresolved) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, dto.Conversation{
			CounterpartyID:       other,
			CounterpartyName:     name,
			LastMessageContent:   m.Content,
			LastMessageTimestamp: m.CreatedAt,
		})
	}
	return out, nil
}

// ChatHistory returns both directions between the caller and counterparty,
// oldest first. Mentor profile ids resolve to their owner.
func (s *MessageService) ChatHistory(ctx context.Context, caller principal.Principal, counterpartyID uuid.UUID) ([]models.Message, error) {
	other := counterpartyID
	if profile, err := s.store.Mentors().FindByID(ctx, counterpartyID); err == nil {
		other = profile.UserID
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.messages.ListBetween(ctx, caller.UserID, other)
}

// MarkRead flags every unread message from sender to the caller as read.
func (s *MessageService) MarkRead(ctx context.Context, caller principal.Principal, senderID uuid.UUID) (int64, error) {
	return s.messages.MarkRead(ctx, senderID, caller.UserID)
}

func (s *MessageService) UnreadCount(ctx context.Context, caller principal.Principal) (int64, error) {
	return s.messages.CountUnread(ctx, caller.UserID)
}
