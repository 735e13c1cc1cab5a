package usecase

import (
	"context"
	"fmt"

	"expert-marketplace/internal/apperr"
	"expert-marketplace/internal/data/repository"
	"expert-marketplace/internal/domain/rating"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RatingAggregator keeps Expert.AverageRating equal to the rounded mean of
// every rating the expert has received.
type RatingAggregator interface {
	Recompute(ctx context.Context, tx *repository.Repository, expertID uuid.UUID) (float64, error)
}

type ratingAggregator struct {
	log *zap.Logger
}

func NewRatingAggregator(log *zap.Logger) RatingAggregator {
	return &ratingAggregator{
		log: log.With(zap.String("service", "rating")),
	}
}

// Recompute must run inside the transaction that wrote the new rating. The
// expert row stays locked until that transaction ends, so two reviews for the
// same expert cannot interleave their reads and writes.
func (a *ratingAggregator) Recompute(ctx context.Context, tx *repository.Repository, expertID uuid.UUID) (float64, error) {
	expert, err := tx.Expert.FindByIDForUpdate(ctx, expertID)
	if err != nil {
		return 0, fmt.Errorf("lock expert %s: %w", expertID.String(), err)
	}
	if expert == nil {
		return 0, apperr.NotFound("Expert not found.")
	}

	ratings, err := tx.Booking.RatingsByExpert(ctx, expertID)
	if err != nil {
		return 0, fmt.Errorf("load ratings: %w", err)
	}

	avg := rating.Average(ratings)
	if err := tx.Expert.UpdateAverageRating(ctx, expertID, avg); err != nil {
		return 0, fmt.Errorf("store average rating: %w", err)
	}

	a.log.Debug("Average rating recomputed",
		zap.String("expert_id", expertID.String()),
		zap.Int("ratings", len(ratings)),
		zap.Float64("average_rating", avg),
	)

	return avg, nil
}
