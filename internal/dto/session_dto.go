package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateSessionRequest books a session. MentorID may be either the mentor's
// user id or the id of their mentor profile.
type CreateSessionRequest struct {
	MentorID    uuid.UUID `json:"mentorId" validate:"required"`
	Topic       string    `json:"topic" validate:"required,max=255"`
	Description string    `json:"description" validate:"max=5000"`
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
	Duration    int       `json:"duration" validate:"required,gt=0"`
	Price       float64   `json:"price" validate:"gte=0"`
	Notes       string    `json:"notes" validate:"max=5000"`
}

type UpdateSessionStatusRequest struct {
	Status      string `json:"status" validate:"required,oneof=pending accepted rejected completed"`
	MeetingLink string `json:"meetingLink" validate:"omitempty,url,max=500"`
}

type MeetingLinkRequest struct {
	MeetingLink string `json:"meetingLink" validate:"required,url,max=500"`
}

type CancelSessionRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}
