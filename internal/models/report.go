package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReportPending   = "pending"
	ReportReviewed  = "reviewed"
	ReportActioned  = "actioned"
	ReportDismissed = "dismissed"
)

// Report is a user-filed complaint about a user, session, review or message.
type Report struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReporterID  uuid.UUID `gorm:"type:uuid;not null;index" json:"reporterId"`
	ContentType string    `gorm:"not null;size:50" json:"contentType"`
	ContentID   string    `gorm:"not null;size:255;index" json:"contentId"`
	Reason      string    `gorm:"not null;size:500" json:"reason"`
	Status      string    `gorm:"not null;default:'pending';size:50;index" json:"status"`
	AdminNote   string    `gorm:"size:1000" json:"adminNote,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Reporter    *User     `gorm:"foreignKey:ReporterID" json:"-"`
}
