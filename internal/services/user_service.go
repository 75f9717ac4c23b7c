package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/models"
	"github.com/mentorconnect/backend/internal/principal"
	"github.com/mentorconnect/backend/internal/repository"
)

var (
	ErrInvalidRole = errors.New("invalid role")
	ErrSelfDelete  = errors.New("admins cannot delete their own account here")
)

// UserService covers profile self-service and admin user management.
type UserService struct {
	store    repository.Store
	settings *SettingsService
}

func NewUserService(store repository.Store, settings *SettingsService) *UserService {
	return &UserService{store: store, settings: settings}
}

func (s *UserService) Profile(ctx context.Context, actor principal.Principal) (*models.User, error) {
	user, err := s.store.Users().FindByID(ctx, actor.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *UserService) UpdateProfile(ctx context.Context, actor principal.Principal, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Profile(ctx, actor)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.ProfileImage != nil {
		user.ProfileImage = strings.TrimSpace(*req.ProfileImage)
	}
	user.ProfileCompleted = user.FirstName != "" && user.LastName != "" && user.PhoneNumber != ""

	if err := s.store.Users().Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, role string) ([]models.User, error) {
	if role != "" && !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	return s.store.Users().List(ctx, role)
}

// ChangeRole sets a user's role. Promoting to mentor creates the mentor
// profile when it does not exist yet.
func (s *UserService) ChangeRole(ctx context.Context, userID uuid.UUID, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	var user *models.User
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		user, err = tx.Users().FindByID(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}
		user.Role = role
		if err := tx.Users().Save(ctx, user); err != nil {
			return err
		}
		if role != models.RoleMentor {
			return nil
		}
		if _, err := tx.Mentors().FindByUserID(ctx, userID); !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return tx.Mentors().Create(ctx, &models.MentorProfile{UserID: userID})
	})
	if err != nil {
		return nil, err
	}

	slog.Info("user role changed", "user_id", userID, "role", role)
	return user, nil
}

// Delete removes a user together with their mentor profile, refresh tokens,
// blocks and reports.
func (s *UserService) Delete(ctx context.Context, actor principal.Principal, userID uuid.UUID) error {
	if actor.UserID == userID {
		return ErrSelfDelete
	}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().FindByID(ctx, userID); errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		} else if err != nil {
			return err
		}
		if err := tx.Mentors().DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		if err := tx.Tokens().DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := tx.Moderation().DeleteByUser(ctx, userID); err != nil {
			return err
		}
		return tx.Users().Delete(ctx, userID)
	})
	if err != nil {
		return err
	}
	slog.Info("user deleted", "user_id", userID, "by", actor.UserID)
	return nil
}

// Overview aggregates platform counts and revenue for the admin dashboard.
func (s *UserService) Overview(ctx context.Context) (*dto.OverviewResponse, error) {
	cfg, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	byRole, err := s.store.Users().CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.store.Sessions().CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.store.Sessions().List(ctx, repository.SessionQuery{
		Statuses: []models.SessionStatus{models.SessionCompleted},
	})
	if err != nil {
		return nil, err
	}

	out := &dto.OverviewResponse{
		UsersByRole:      byRole,
		SessionsByStatus: make(map[string]int64, len(byStatus)),
		Currency:         cfg.Payment.Currency,
	}
	for _, n := range byRole {
		out.TotalUsers += n
	}
	for st, n := range byStatus {
		out.SessionsByStatus[string(st)] = n
		out.TotalSessions += n
	}
	for _, sess := range completed {
		if sess.PaymentStatus != models.PaymentRefunded {
			out.GrossRevenue += sess.Price
		}
	}
	out.PlatformRevenue = roundCents(out.GrossRevenue * cfg.Session.PlatformFeePercentage / 100)
	out.GrossRevenue = roundCents(out.GrossRevenue)
	return out, nil
}
