package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/metrics"
	"github.com/mentorconnect/backend/internal/models"
	"github.com/mentorconnect/backend/internal/principal"
	"github.com/mentorconnect/backend/internal/repository"
)

var (
	ErrSessionNotCompleted = errors.New("reviews can only be left for completed sessions")
	ErrReviewExists        = errors.New("session already reviewed")
	ErrReviewNotFound      = errors.New("review not found")
	ErrNotReviewAuthor     = errors.New("only the author can change this review")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrCommentRequired     = errors.New("comment is required")
	ErrReviewMismatch      = errors.New("review does not match the session")
)

// ContentRejectedError carries the moderation reason for refused text.
type ContentRejectedError struct {
	Reason  string
	Message string
}

func (e *ContentRejectedError) Error() string { return e.Message }

type ReviewService struct {
	store      repository.Store
	ratings    *RatingAggregator
	moderation *ModerationService
}

func NewReviewService(store repository.Store, ratings *RatingAggregator, moderation *ModerationService) *ReviewService {
	return &ReviewService{store: store, ratings: ratings, moderation: moderation}
}

func (s *ReviewService) checkComment(comment string) error {
	if strings.TrimSpace(comment) == "" {
		return ErrCommentRequired
	}
	if ok, reason := s.moderation.FilterContent(comment); !ok {
		return &ContentRejectedError{Reason: reason, Message: s.moderation.GetRejectionMessage(reason)}
	}
	return nil
}

// Create stores a review for a completed session and recomputes the
// mentor's rating in the same transaction.
func (s *ReviewService) Create(ctx context.Context, actor principal.Principal, req *dto.CreateReviewRequest) (*models.Review, error) {
	session, err := s.store.Sessions().FindByID(ctx, req.SessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionCompleted {
		return nil, ErrSessionNotCompleted
	}
	if session.StudentID != actor.UserID {
		return nil, ErrNotSessionStudent
	}
	if req.UserID != nil && *req.UserID != actor.UserID {
		return nil, ErrReviewMismatch
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if err := s.checkComment(req.Comment); err != nil {
		return nil, err
	}

	profile, err := s.store.Mentors().FindByUserID(ctx, session.MentorID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMentorNotFound
	}
	if err != nil {
		return nil, err
	}
	if req.MentorID != nil && *req.MentorID != profile.ID && *req.MentorID != profile.UserID {
		return nil, ErrReviewMismatch
	}

	review := models.Review{
		UserID:    actor.UserID,
		MentorID:  profile.ID,
		SessionID: session.ID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		IsPublic:  true,
	}
	if req.IsPublic != nil {
		review.IsPublic = *req.IsPublic
	}

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Reviews().FindBySessionID(ctx, session.ID); err == nil {
			return ErrReviewExists
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err := tx.Reviews().Create(ctx, &review); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrReviewExists
			}
			return fmt.Errorf("failed to create review: %w", err)
		}
		return s.ratings.Recompute(ctx, tx, profile.ID)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("review created", "review_id", review.ID, "session_id", session.ID, "mentor_id", profile.ID)
	metrics.ReviewsSubmitted.Inc()
	return &review, nil
}

func (s *ReviewService) Update(ctx context.Context, actor principal.Principal, reviewID uuid.UUID, req *dto.UpdateReviewRequest) (*models.Review, error) {
	var review *models.Review
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		review, err = s.ownedReview(ctx, tx, actor, reviewID)
		if err != nil {
			return err
		}
		if req.Rating != nil {
			if *req.Rating < 1 || *req.Rating > 5 {
				return ErrInvalidRating
			}
			review.Rating = *req.Rating
		}
		if req.Comment != nil {
			if err := s.checkComment(*req.Comment); err != nil {
				return err
			}
			review.Comment = strings.TrimSpace(*req.Comment)
		}
		if req.IsPublic != nil {
			review.IsPublic = *req.IsPublic
		}
		if err := tx.Reviews().Save(ctx, review); err != nil {
			return fmt.Errorf("failed to update review: %w", err)
		}
		return s.ratings.Recompute(ctx, tx, review.MentorID)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor principal.Principal, reviewID uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		review, err := s.ownedReview(ctx, tx, actor, reviewID)
		if err != nil {
			return err
		}
		if err := tx.Reviews().Delete(ctx, review.ID); err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}
		return s.ratings.Recompute(ctx, tx, review.MentorID)
	})
}

func (s *ReviewService) ownedReview(ctx context.Context, tx repository.Store, actor principal.Principal, reviewID uuid.UUID) (*models.Review, error) {
	review, err := tx.Reviews().FindByID(ctx, reviewID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	if review.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrNotReviewAuthor
	}
	return review, nil
}

// ListForMentor accepts a mentor profile id or a mentor user id and returns
// the public reviews, newest first.
func (s *ReviewService) ListForMentor(ctx context.Context, mentorID uuid.UUID) ([]models.Review, error) {
	profile, err := s.store.Mentors().FindByID(ctx, mentorID)
	if errors.Is(err, repository.ErrNotFound) {
		profile, err = s.store.Mentors().FindByUserID(ctx, mentorID)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMentorNotFound
	}
	if err != nil {
		return nil, err
	}

	all, err := s.store.Reviews().ListByMentor(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	public := make([]models.Review, 0, len(all))
	for _, r := range all {
		if r.IsPublic {
			public = append(public, r)
		}
	}
	return public, nil
}
