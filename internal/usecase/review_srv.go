package usecase

import (
	"context"

	"expert-marketplace/internal/apperr"
	"expert-marketplace/internal/data/entity"
	"expert-marketplace/internal/data/repository"
	"expert-marketplace/internal/domain/lifecycle"
	"expert-marketplace/internal/dto/request"
	"expert-marketplace/internal/dto/response"
	"expert-marketplace/pkg/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	SubmitReview(ctx context.Context, callerID uuid.UUID, req *request.SubmitReviewRequest) (*response.ReviewResultResponse, error)

	// Public endpoint
	ExpertReviews(ctx context.Context, expertID uuid.UUID) ([]response.ExpertReviewResponse, error)
}

type reviewService struct {
	repo      *repository.Repository
	tx        repository.Transactor
	ratings   RatingAggregator
	publisher events.Publisher
	log       *zap.Logger
}

func NewReviewService(
	repo *repository.Repository,
	tx repository.Transactor,
	ratings RatingAggregator,
	publisher events.Publisher,
	log *zap.Logger,
) ReviewService {
	return &reviewService{
		repo:      repo,
		tx:        tx,
		ratings:   ratings,
		publisher: publisher,
		log:       log.With(zap.String("service", "review")),
	}
}

// SubmitReview rates a finished booking and refreshes the expert's average in
// the same transaction, so the average never misses a committed rating.
func (s *reviewService) SubmitReview(ctx context.Context, callerID uuid.UUID, req *request.SubmitReviewRequest) (*response.ReviewResultResponse, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, apperr.Validation("Invalid booking ID format")
	}

	var (
		booking *entity.Booking
		average float64
	)
	err = s.tx.WithinTx(ctx, func(tx *repository.Repository) error {
		b, err := tx.Booking.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b == nil {
			return apperr.NotFound("Booking not found.")
		}
		if b.ClientID != callerID {
			return apperr.Forbidden("You can only review jobs that you personally booked.")
		}

		if err := lifecycle.Review(b, req.Rating, req.ReviewComment); err != nil {
			return err
		}

		if err := tx.Booking.SetReview(ctx, b.ID, *b.Rating, *b.ReviewComment); err != nil {
			return err
		}

		average, err = s.ratings.Recompute(ctx, tx, b.ExpertID)
		if err != nil {
			return err
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, fail(s.log, "submit review", err)
	}

	s.log.Info("Review submitted",
		zap.String("booking_id", booking.ID.String()),
		zap.String("expert_id", booking.ExpertID.String()),
		zap.Int("rating", *booking.Rating),
		zap.Float64("average_rating", average),
	)

	publish(ctx, s.publisher, s.log, events.BookingEvent{
		Type:          events.BookingReviewed,
		BookingID:     booking.ID.String(),
		ClientID:      booking.ClientID.String(),
		ExpertID:      booking.ExpertID.String(),
		Status:        booking.Status.String(),
		Rating:        booking.Rating,
		AverageRating: &average,
	})

	return &response.ReviewResultResponse{
		AverageRating: average,
		ExpertID:      booking.ExpertID.String(),
	}, nil
}

func (s *reviewService) ExpertReviews(ctx context.Context, expertID uuid.UUID) ([]response.ExpertReviewResponse, error) {
	reviews, err := s.repo.Booking.ReviewsByExpert(ctx, expertID)
	if err != nil {
		return nil, fail(s.log, "get expert reviews", err)
	}

	result := make([]response.ExpertReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		result = append(result, response.ExpertReviewToResponse(review))
	}

	return result, nil
}
