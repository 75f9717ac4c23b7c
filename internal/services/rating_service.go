package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mentorconnect/backend/internal/metrics"
	"github.com/mentorconnect/backend/internal/repository"
)

// RatingAggregator keeps MentorProfile.Rating and TotalReviews equal to the
// mean and count of the mentor's reviews.
type RatingAggregator struct {
	store repository.Store
}

func NewRatingAggregator(store repository.Store) *RatingAggregator {
	return &RatingAggregator{store: store}
}

// Mean returns the arithmetic mean of ratings, or 0 for none.
func Mean(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}

// Recompute rewrites the aggregate of one mentor profile from all of its
// reviews. Pass a transactional store to make it atomic with a review write.
func (a *RatingAggregator) Recompute(ctx context.Context, store repository.Store, mentorID uuid.UUID) error {
	if store == nil {
		store = a.store
	}
	ratings, err := store.Reviews().Ratings(ctx, mentorID)
	if err != nil {
		metrics.RatingRecomputeErrors.Inc()
		return fmt.Errorf("failed to load ratings: %w", err)
	}
	if err := store.Mentors().UpdateRating(ctx, mentorID, Mean(ratings), len(ratings)); err != nil {
		metrics.RatingRecomputeErrors.Inc()
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMentorNotFound
		}
		return fmt.Errorf("failed to update rating: %w", err)
	}
	return nil
}

// RecomputeAll repairs every mentor aggregate and returns how many profiles
// were rewritten.
func (a *RatingAggregator) RecomputeAll(ctx context.Context) (int, error) {
	ids, err := a.store.Mentors().ListIDs(ctx)
	if err != nil {
		return 0, err
	}
	for i, id := range ids {
		if err := a.Recompute(ctx, nil, id); err != nil {
			slog.Error("rating recompute failed", "mentor_id", id, "error", err)
			return i, err
		}
	}
	return len(ids), nil
}
