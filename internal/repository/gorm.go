package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mentorconnect/backend/internal/config"
	"github.com/mentorconnect/backend/internal/models"
)

// GormStore is the Store over any gorm dialect the service supports
// (postgres in production, sqlite for the memory driver and tests).
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserRepository { return &gormUsers{db: s.db} }
func (s *GormStore) Mentors() MentorRepository { return &gormMentors{db: s.db} }
func (s *GormStore) Sessions() SessionRepository { return &gormSessions{db: s.db} }
func (s *GormStore) Reviews() ReviewRepository { return &gormReviews{db: s.db} }
func (s *GormStore) Tokens() TokenRepository { return &gormTokens{db: s.db} }
func (s *GormStore) Moderation() ModerationRepository { return &gormModeration{db: s.db} }
func (s *GormStore) Settings() SettingsRepository { return &gormSettings{db: s.db} }

func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

func affected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- users ---

type gormUsers struct{ db *gorm.DB }

func (r *gormUsers) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *gormUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *gormUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *gormUsers) List(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *gormUsers) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *gormUsers) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&models.User{}))
}

func (r *gormUsers) CountByRole(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Role  string
		Count int64
	}
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("role, count(*) as count").Group("role").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Role] = row.Count
	}
	return out, nil
}

// --- mentor profiles ---

type gormMentors struct{ db *gorm.DB }

func (r *gormMentors) Create(ctx context.Context, profile *models.MentorProfile) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(profile).Error)
}

func (r *gormMentors) FindByID(ctx context.Context, id uuid.UUID) (*models.MentorProfile, error) {
	var profile models.MentorProfile
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *gormMentors) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.MentorProfile, error) {
	var profile models.MentorProfile
	if err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *gormMentors) List(ctx context.Context, filter MentorFilter) ([]models.MentorProfile, error) {
	q := r.db.WithContext(ctx).Preload("User")
	if filter.Expertise != "" {
		q = q.Where(datatypes.JSONArrayQuery("expertise").Contains(filter.Expertise))
	}
	if filter.MinRating != nil {
		q = q.Where("rating >= ?", *filter.MinRating)
	}
	if filter.MaxPrice != nil {
		q = q.Where("hourly_rate <= ?", *filter.MaxPrice)
	}

	var profiles []models.MentorProfile
	if err := q.Order("rating DESC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *gormMentors) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.MentorProfile{}).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *gormMentors) Save(ctx context.Context, profile *models.MentorProfile) error {
	return r.db.WithContext(ctx).Omit("User").Save(profile).Error
}

func (r *gormMentors) UpdateRating(ctx context.Context, id uuid.UUID, rating float64, total int) error {
	return affected(r.db.WithContext(ctx).Model(&models.MentorProfile{}).Where("id = ?", id).
		Updates(map[string]interface{}{"rating": rating, "total_reviews": total}))
}

func (r *gormMentors) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.MentorProfile{}).Error
}

// --- sessions ---

type gormSessions struct{ db *gorm.DB }

func (r *gormSessions) Create(ctx context.Context, session *models.Session) error {
	return translate(r.db.WithContext(ctx).Omit("Student", "Mentor").Create(session).Error)
}

func (r *gormSessions) FindByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).Preload("Student").Preload("Mentor").
		Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (r *gormSessions) List(ctx context.Context, q SessionQuery) ([]models.Session, error) {
	tx := r.db.WithContext(ctx).Preload("Student").Preload("Mentor")
	if q.MentorID != nil {
		tx = tx.Where("mentor_id = ?", *q.MentorID)
	}
	if q.StudentID != nil {
		tx = tx.Where("student_id = ?", *q.StudentID)
	}
	if len(q.Statuses) > 0 {
		tx = tx.Where("status IN ?", q.Statuses)
	}
	if q.ScheduledAfter != nil {
		tx = tx.Where("scheduled_at > ?", q.ScheduledAfter.UTC())
	}
	switch q.Order {
	case OrderScheduledAsc:
		tx = tx.Order("scheduled_at ASC")
	default:
		tx = tx.Order("created_at DESC")
	}

	var sessions []models.Session
	if err := tx.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *gormSessions) Save(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Omit("Student", "Mentor").Save(session).Error
}

func (r *gormSessions) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) error {
	return affected(r.db.WithContext(ctx).Model(&models.Session{}).Where("id = ?", id).
		Update("payment_status", status))
}

func (r *gormSessions) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}))
}

func (r *gormSessions) CountByStatus(ctx context.Context) (map[models.SessionStatus]int64, error) {
	var rows []struct {
		Status models.SessionStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&models.Session{}).
		Select("status, count(*) as count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[models.SessionStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

// --- reviews ---

type gormReviews struct{ db *gorm.DB }

func (r *gormReviews) Create(ctx context.Context, review *models.Review) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(review).Error)
}

func (r *gormReviews) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *gormReviews) FindBySessionID(ctx context.Context, sessionID uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&review).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *gormReviews) ListByMentor(ctx context.Context, mentorID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).Preload("User").Where("mentor_id = ?", mentorID).
		Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *gormReviews) Ratings(ctx context.Context, mentorID uuid.UUID) ([]int, error) {
	var ratings []int
	if err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("mentor_id = ?", mentorID).Pluck("rating", &ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *gormReviews) Save(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Omit("User").Save(review).Error
}

func (r *gormReviews) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Review{}))
}

// --- refresh tokens ---

type gormTokens struct{ db *gorm.DB }

func (r *gormTokens) Create(ctx context.Context, token *models.RefreshToken) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(token).Error)
}

func (r *gormTokens) FindActiveByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := r.db.WithContext(ctx).Where("token_hash = ? AND revoked = ?", hash, false).First(&token).Error
	if err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

func (r *gormTokens) Revoke(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.RefreshToken{}).Where("id = ?", id).
		Update("revoked", true).Error
}

func (r *gormTokens) RevokeByHash(ctx context.Context, hash string) error {
	return r.db.WithContext(ctx).Model(&models.RefreshToken{}).Where("token_hash = ?", hash).
		Update("revoked", true).Error
}

func (r *gormTokens) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
}

// --- moderation ---

type gormModeration struct{ db *gorm.DB }

func (r *gormModeration) CreateReport(ctx context.Context, report *models.Report) error {
	return translate(r.db.WithContext(ctx).Omit("Reporter").Create(report).Error)
}

func (r *gormModeration) ListReports(ctx context.Context, status string, limit, offset int) ([]models.Report, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Report{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []models.Report
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *gormModeration) UpdateReport(ctx context.Context, id uuid.UUID, status, note string) error {
	return affected(r.db.WithContext(ctx).Model(&models.Report{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "admin_note": note}))
}

func (r *gormModeration) CreateBlock(ctx context.Context, block *models.Block) error {
	return translate(r.db.WithContext(ctx).Omit("Blocker", "Blocked").Create(block).Error)
}

func (r *gormModeration) DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	return affected(r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).Delete(&models.Block{}))
}

func (r *gormModeration) Blocked(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

func (r *gormModeration) FindBlock(ctx context.Context, blockerID, blockedID uuid.UUID) (*models.Block, error) {
	var block models.Block
	err := r.db.WithContext(ctx).Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).First(&block).Error
	if err != nil {
		return nil, translate(err)
	}
	return &block, nil
}

func (r *gormModeration) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("blocker_id = ? OR blocked_id = ?", userID, userID).Delete(&models.Block{}).Error; err != nil {
		return err
	}
	return db.Where("reporter_id = ?", userID).Delete(&models.Report{}).Error
}

// --- settings ---

const settingsRowID = 1

type gormSettings struct{ db *gorm.DB }

func (r *gormSettings) Load(ctx context.Context) (config.SettingsPatch, error) {
	var row models.PlatformSetting
	err := r.db.WithContext(ctx).Where("id = ?", settingsRowID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return config.SettingsPatch{}, nil
	}
	if err != nil {
		return config.SettingsPatch{}, err
	}
	return row.Overrides.Data(), nil
}

func (r *gormSettings) Save(ctx context.Context, patch config.SettingsPatch, updatedBy *uuid.UUID) error {
	row := models.PlatformSetting{
		ID:        settingsRowID,
		Overrides: datatypes.NewJSONType(patch),
		UpdatedBy: updatedBy,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
}

// --- messages ---

// GormMessages stores the message log in the relational database.
type GormMessages struct {
	db *gorm.DB
}

func NewGormMessages(db *gorm.DB) *GormMessages {
	return &GormMessages{db: db}
}

func (r *GormMessages) Create(ctx context.Context, msg *models.Message) error {
	return translate(r.db.WithContext(ctx).Create(msg).Error)
}

func (r *GormMessages) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.WithContext(ctx).Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *GormMessages) ListBetween(ctx context.Context, a, b uuid.UUID) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at ASC").Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *GormMessages) MarkRead(ctx context.Context, senderID, receiverID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *GormMessages) CountUnread(ctx context.Context, receiverID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).Count(&n).Error
	return n, err
}
