package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Primary keys are generated in Go so every dialect gets the same ids.
func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error          { newID(&u.ID); return nil }
func (p *MentorProfile) BeforeCreate(*gorm.DB) error { newID(&p.ID); return nil }
func (s *Session) BeforeCreate(*gorm.DB) error       { newID(&s.ID); return nil }
func (r *Review) BeforeCreate(*gorm.DB) error        { newID(&r.ID); return nil }
func (m *Message) BeforeCreate(*gorm.DB) error       { newID(&m.ID); return nil }
func (t *RefreshToken) BeforeCreate(*gorm.DB) error  { newID(&t.ID); return nil }
func (r *Report) BeforeCreate(*gorm.DB) error        { newID(&r.ID); return nil }
func (b *Block) BeforeCreate(*gorm.DB) error         { newID(&b.ID); return nil }
func (l *SystemLog) BeforeCreate(*gorm.DB) error     { newID(&l.ID); return nil }
