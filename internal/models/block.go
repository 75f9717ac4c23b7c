package models

import (
	"time"

	"github.com/google/uuid"
)

// Block stops messages between two users in both directions.
type Block struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BlockerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_blocks_pair,priority:1" json:"blockerId"`
	BlockedID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_blocks_pair,priority:2;index" json:"blockedId"`
	CreatedAt time.Time `json:"createdAt"`
	Blocker   *User     `gorm:"foreignKey:BlockerID" json:"-"`
	Blocked   *User     `gorm:"foreignKey:BlockedID" json:"-"`
}

func (Block) TableName() string {
	return "blocks"
}
