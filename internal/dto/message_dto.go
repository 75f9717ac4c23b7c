package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	ReceiverID   uuid.UUID `json:"receiverId" validate:"required"`
	Content      string    `json:"content" validate:"required,max=5000"`
	ReceiverType string    `json:"receiverType" validate:"omitempty,oneof=User Mentor"`
}

type Conversation struct {
	CounterpartyID       uuid.UUID `json:"counterpartyId"`
	CounterpartyName     string    `json:"counterpartyName"`
	LastMessageContent   string    `json:"lastMessageContent"`
	LastMessageTimestamp time.Time `json:"lastMessageTimestamp"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}
