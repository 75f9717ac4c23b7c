package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AvailabilitySlot struct {
	Day  string `json:"day"`
	Time string `json:"time"`
}

// MentorProfile extends a mentor User. Rating and TotalReviews are derived
// from the mentor's reviews and only written by the rating aggregator.
type MentorProfile struct {
	ID           uuid.UUID                            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID                            `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	Bio          string                               `gorm:"type:text" json:"bio"`
	Expertise    datatypes.JSONSlice[string]          `json:"expertise"`
	Availability datatypes.JSONSlice[AvailabilitySlot] `json:"availability"`
	HourlyRate   float64                              `gorm:"default:0" json:"hourlyRate"`
	Rating       float64                              `gorm:"default:0" json:"rating"`
	TotalReviews int                                  `gorm:"default:0" json:"totalReviews"`
	IsVerified   bool                                 `gorm:"default:false" json:"isVerified"`
	CreatedAt    time.Time                            `json:"createdAt"`
	UpdatedAt    time.Time                            `json:"updatedAt"`
	User         *User                                `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
