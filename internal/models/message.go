package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PartyTypeUser   = "User"
	PartyTypeMentor = "Mentor"
)

// Message is an entry in the append-only message log. Only IsRead changes
// after creation.
type Message struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID     uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_pair,priority:1" json:"senderId"`
	ReceiverID   uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_pair,priority:2;index" json:"receiverId"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	SenderType   string    `gorm:"size:10;not null" json:"senderType"`
	ReceiverType string    `gorm:"size:10;not null" json:"receiverType"`
	IsRead       bool      `gorm:"default:false" json:"isRead"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
}

func ValidPartyType(t string) bool {
	return t == PartyTypeUser || t == PartyTypeMentor
}
