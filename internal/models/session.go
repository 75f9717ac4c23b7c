package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionAccepted  SessionStatus = "accepted"
	SessionRejected  SessionStatus = "rejected"
	SessionCompleted SessionStatus = "completed"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionPending, SessionAccepted, SessionRejected, SessionCompleted:
		return true
	}
	return false
}

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentRefunded  = "refunded"
)

// Session is one booking between a student and a mentor. Both parties are
// referenced by user id.
type Session struct {
	ID                 uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID          uuid.UUID     `gorm:"type:uuid;not null;index" json:"studentId"`
	MentorID           uuid.UUID     `gorm:"type:uuid;not null;index" json:"mentorId"`
	Topic              string        `gorm:"size:255;not null" json:"topic"`
	Description        string        `gorm:"type:text" json:"description"`
	ScheduledAt        time.Time     `gorm:"not null;index" json:"scheduledAt"`
	Duration           int           `gorm:"not null" json:"duration"`
	Price              float64       `gorm:"not null" json:"price"`
	Status             SessionStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	MeetingLink        string        `gorm:"size:500" json:"meetingLink,omitempty"`
	PaymentStatus      string        `gorm:"size:20;not null;default:'pending'" json:"paymentStatus"`
	CancellationReason string        `gorm:"size:500" json:"cancellationReason,omitempty"`
	Notes              string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
	Student            *User         `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Mentor             *User         `gorm:"foreignKey:MentorID" json:"mentor,omitempty"`
}

// EndsAt is the scheduled end of the session.
func (s *Session) EndsAt() time.Time {
	return s.ScheduledAt.Add(time.Duration(s.Duration) * time.Minute)
}
