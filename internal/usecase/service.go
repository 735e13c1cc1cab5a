package usecase

import (
	"context"
	"errors"
	"time"

	"expert-marketplace/internal/apperr"
	"expert-marketplace/internal/data/repository"
	"expert-marketplace/pkg/events"
	"expert-marketplace/pkg/utils"

	"go.uber.org/zap"
)

// publishTimeout bounds the post-commit event publish. The request context
// may already be done by then, so publishing runs on a detached one.
const publishTimeout = 2 * time.Second

type Service struct {
	Auth    AuthService
	User    UserService
	Expert  ExpertService
	Booking BookingService
	Review  ReviewService
}

func NewService(
	repo *repository.Repository,
	tx repository.Transactor,
	tokens utils.TokenManager,
	publisher events.Publisher,
	log *zap.Logger,
) *Service {
	ratings := NewRatingAggregator(log)

	return &Service{
		Auth:    NewAuthService(repo, tx, tokens, log),
		User:    NewUserService(repo, tx, log),
		Expert:  NewExpertService(repo, log),
		Booking: NewBookingService(repo, tx, publisher, log),
		Review:  NewReviewService(repo, tx, ratings, publisher, log),
	}
}

// fail passes business errors through and turns anything else into an
// Internal error after logging it.
func fail(log *zap.Logger, operation string, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		if appErr.Kind == apperr.KindInternal {
			log.Error(operation+" failed", zap.Error(err))
		}
		return err
	}

	log.Error(operation+" failed", zap.Error(err))
	return apperr.Internal(err)
}

func publish(ctx context.Context, publisher events.Publisher, log *zap.Logger, evt events.BookingEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := publisher.Publish(ctx, evt); err != nil {
		log.Warn("Failed to publish booking event",
			zap.Error(err),
			zap.String("event", evt.Type),
			zap.String("booking_id", evt.BookingID),
		)
	}
}
