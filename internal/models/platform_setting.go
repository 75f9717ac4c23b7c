package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/mentorconnect/backend/internal/config"
)

// PlatformSetting holds the admin overrides applied on top of the defaults
// and the settings file. There is a single row with ID 1.
type PlatformSetting struct {
	ID        uint                                    `gorm:"primaryKey" json:"-"`
	Overrides datatypes.JSONType[config.SettingsPatch] `json:"overrides"`
	UpdatedBy *uuid.UUID                              `gorm:"type:uuid" json:"updatedBy,omitempty"`
	UpdatedAt time.Time                               `json:"updatedAt"`
}

func (PlatformSetting) TableName() string {
	return "platform_settings"
}
