package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/models"
	"github.com/mentorconnect/backend/internal/principal"
	"github.com/mentorconnect/backend/internal/repository"
)

var ErrMentorProfileMissing = errors.New("mentor profile not found")

type MentorService struct {
	store    repository.Store
	settings *SettingsService
}

func NewMentorService(store repository.Store, settings *SettingsService) *MentorService {
	return &MentorService{store: store, settings: settings}
}

// List returns mentor profiles sorted by rating. Search matches the mentor's
// name, bio or any expertise tag, case-insensitively.
func (s *MentorService) List(ctx context.Context, q *dto.MentorQuery) ([]models.MentorProfile, error) {
	profiles, err := s.store.Mentors().List(ctx, repository.MentorFilter{
		Expertise: strings.TrimSpace(q.Expertise),
		MinRating: q.MinRating,
		MaxPrice:  q.MaxPrice,
	})
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))
	if search == "" {
		return profiles, nil
	}
	out := make([]models.MentorProfile, 0, len(profiles))
	for _, p := range profiles {
		if matchesSearch(&p, search) {
			out = append(out, p)
		}
	}
	return out, nil
}

func matchesSearch(p *models.MentorProfile, search string) bool {
	if p.User != nil && strings.Contains(strings.ToLower(p.User.FullName()), search) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Bio), search) {
		return true
	}
	for _, tag := range p.Expertise {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}

// Get looks a mentor up by profile id, falling back to the mentor's user id.
func (s *MentorService) Get(ctx context.Context, id uuid.UUID) (*models.MentorProfile, error) {
	profile, err := s.store.Mentors().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		profile, err = s.store.Mentors().FindByUserID(ctx, id)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMentorNotFound
	}
	return profile, err
}

func (s *MentorService) GetOwn(ctx context.Context, actor principal.Principal) (*models.MentorProfile, error) {
	profile, err := s.store.Mentors().FindByUserID(ctx, actor.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMentorProfileMissing
	}
	return profile, err
}

func (s *MentorService) UpdateOwn(ctx context.Context, actor principal.Principal, req *dto.UpdateMentorProfileRequest) (*models.MentorProfile, error) {
	var profile *models.MentorProfile
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		profile, err = tx.Mentors().FindByUserID(ctx, actor.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMentorProfileMissing
		}
		if err != nil {
			return err
		}

		if req.Bio != nil {
			profile.Bio = strings.TrimSpace(*req.Bio)
		}
		if req.Expertise != nil {
			profile.Expertise = datatypes.JSONSlice[string](cleanTags(*req.Expertise))
		}
		if req.Availability != nil {
			profile.Availability = datatypes.JSONSlice[models.AvailabilitySlot](*req.Availability)
		}
		if req.HourlyRate != nil {
			if *req.HourlyRate < 0 {
				return ErrInvalidPrice
			}
			profile.HourlyRate = *req.HourlyRate
		}
		if err := tx.Mentors().Save(ctx, profile); err != nil {
			return fmt.Errorf("failed to update mentor profile: %w", err)
		}

		if req.PhoneNumber != nil {
			user, err := tx.Users().FindByID(ctx, actor.UserID)
			if err != nil {
				return err
			}
			user.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
			if err := tx.Users().Save(ctx, user); err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
			profile.User = user
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOwn(ctx, actor)
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Verify marks a mentor profile as verified. Accepts a profile or user id.
func (s *MentorService) Verify(ctx context.Context, id uuid.UUID) (*models.MentorProfile, error) {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	profile.IsVerified = true
	if err := s.store.Mentors().Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to verify mentor: %w", err)
	}
	return profile, nil
}

// Earnings summarizes the caller's completed sessions after the platform fee.
// Refunded sessions are excluded.
func (s *MentorService) Earnings(ctx context.Context, actor principal.Principal) (*dto.EarningsResponse, error) {
	cfg, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := s.store.Sessions().List(ctx, repository.SessionQuery{
		MentorID: &actor.UserID,
		Statuses: []models.SessionStatus{models.SessionCompleted},
	})
	if err != nil {
		return nil, err
	}

	feeRate := cfg.Session.PlatformFeePercentage / 100
	out := &dto.EarningsResponse{
		FeePercentage: cfg.Session.PlatformFeePercentage,
		Currency:      cfg.Payment.Currency,
	}
	for _, sess := range sessions {
		if sess.PaymentStatus == models.PaymentRefunded {
			continue
		}
		net := sess.Price * (1 - feeRate)
		out.GrossEarnings += sess.Price
		out.CompletedSessions++
		if sess.PaymentStatus == models.PaymentCompleted {
			out.CompletedPayouts += net
		} else {
			out.PendingPayouts += net
		}
	}
	out.PlatformFee = roundCents(out.GrossEarnings * feeRate)
	out.NetEarnings = roundCents(out.GrossEarnings - out.PlatformFee)
	out.GrossEarnings = roundCents(out.GrossEarnings)
	out.PendingPayouts = roundCents(out.PendingPayouts)
	out.CompletedPayouts = roundCents(out.CompletedPayouts)
	return out, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
