package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser   = "user"
	RoleMentor = "mentor"
	RoleAdmin  = "admin"
)

// User is the platform identity. Mentors additionally own a MentorProfile.
type User struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName        string         `gorm:"size:100;not null" json:"firstName"`
	LastName         string         `gorm:"size:100;not null" json:"lastName"`
	Email            string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password         string         `gorm:"not null" json:"-"`
	Role             string         `gorm:"size:20;default:'user';index" json:"role"`
	PhoneNumber      string         `gorm:"size:50" json:"phoneNumber,omitempty"`
	ProfileImage     string         `gorm:"size:500" json:"profileImage,omitempty"`
	ProfileCompleted bool           `gorm:"default:false" json:"profileCompleted"`
	LastLogin        *time.Time     `json:"lastLogin,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleMentor, RoleAdmin:
		return true
	}
	return false
}
