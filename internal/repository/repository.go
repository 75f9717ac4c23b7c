// Package repository defines the persistence boundary used by the services.
// The gorm implementation lives in this package and serves both postgres and
// sqlite; mongostore provides an alternative message log.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mentorconnect/backend/internal/config"
	"github.com/mentorconnect/backend/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Store groups the relational repositories and runs units of work.
type Store interface {
	Users() UserRepository
	Mentors() MentorRepository
	Sessions() SessionRepository
	Reviews() ReviewRepository
	Tokens() TokenRepository
	Moderation() ModerationRepository
	Settings() SettingsRepository

	// Transaction runs fn against a Store bound to a single transaction.
	// Returning an error from fn rolls every write back.
	Transaction(ctx context.Context, fn func(Store) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, role string) ([]models.User, error)
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByRole(ctx context.Context) (map[string]int64, error)
}

type MentorFilter struct {
	Expertise string
	MinRating *float64
	MaxPrice  *float64
}

type MentorRepository interface {
	Create(ctx context.Context, profile *models.MentorProfile) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.MentorProfile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.MentorProfile, error)
	List(ctx context.Context, filter MentorFilter) ([]models.MentorProfile, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	Save(ctx context.Context, profile *models.MentorProfile) error
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64, total int) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type SessionOrder int

const (
	OrderCreatedDesc SessionOrder = iota
	OrderScheduledAsc
)

type SessionQuery struct {
	MentorID       *uuid.UUID
	StudentID      *uuid.UUID
	Statuses       []models.SessionStatus
	ScheduledAfter *time.Time
	Order          SessionOrder
}

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	List(ctx context.Context, q SessionQuery) ([]models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[models.SessionStatus]int64, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	FindBySessionID(ctx context.Context, sessionID uuid.UUID) (*models.Review, error)
	ListByMentor(ctx context.Context, mentorID uuid.UUID) ([]models.Review, error)
	Ratings(ctx context.Context, mentorID uuid.UUID) ([]int, error)
	Save(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	FindActiveByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	RevokeByHash(ctx context.Context, hash string) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type ModerationRepository interface {
	CreateReport(ctx context.Context, report *models.Report) error
	ListReports(ctx context.Context, status string, limit, offset int) ([]models.Report, int64, error)
	UpdateReport(ctx context.Context, id uuid.UUID, status, note string) error
	CreateBlock(ctx context.Context, block *models.Block) error
	DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) error
	// Blocked reports whether either user has blocked the other.
	Blocked(ctx context.Context, a, b uuid.UUID) (bool, error)
	FindBlock(ctx context.Context, blockerID, blockedID uuid.UUID) (*models.Block, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type SettingsRepository interface {
	Load(ctx context.Context) (config.SettingsPatch, error)
	Save(ctx context.Context, patch config.SettingsPatch, updatedBy *uuid.UUID) error
}

// MessageRepository is the append-only message log.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	// ListForUser returns every message sent or received by userID,
	// newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Message, error)
	// ListBetween returns the messages exchanged by a and b, oldest first.
	ListBetween(ctx context.Context, a, b uuid.UUID) ([]models.Message, error)
	MarkRead(ctx context.Context, senderID, receiverID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, receiverID uuid.UUID) (int64, error)
}
