package models

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	MentorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"mentorId"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"sessionId"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	IsPublic  bool      `json:"isPublic"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
