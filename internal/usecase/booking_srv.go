package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

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

type BookingService interface {
	Hire(ctx context.Context, clientID uuid.UUID, req *request.HireRequest) (*response.HireResponse, error)
	UpdateStatus(ctx context.Context, callerID, bookingID uuid.UUID, req *request.UpdateBookingStatusRequest) (*response.BookingStatusResponse, error)
	Cancel(ctx context.Context, callerID, bookingID uuid.UUID) error
	ListBookings(ctx context.Context, callerID uuid.UUID) ([]response.BookingViewResponse, error)
}

type bookingService struct {
	repo      *repository.Repository
	tx        repository.Transactor
	publisher events.Publisher
	now       func() time.Time
	log       *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	tx repository.Transactor,
	publisher events.Publisher,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:      repo,
		tx:        tx,
		publisher: publisher,
		now:       time.Now,
		log:       log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) Hire(ctx context.Context, clientID uuid.UUID, req *request.HireRequest) (*response.HireResponse, error) {
	expertID, err := uuid.Parse(req.ExpertID)
	if err != nil {
		return nil, apperr.Validation("Invalid expert ID format")
	}

	booking := &entity.Booking{
		ID:          uuid.New(),
		ClientID:    clientID,
		ExpertID:    expertID,
		Description: strings.TrimSpace(req.Description),
		Status:      entity.BookingStatusPending,
		RequestedAt: s.now().UTC(),
	}

	err = s.tx.WithinTx(ctx, func(tx *repository.Repository) error {
		// The expert lock serializes concurrent hires of the same expert, so
		// the active-booking lookup below cannot race another insert.
		expert, err := tx.Expert.FindByIDForUpdate(ctx, expertID)
		if err != nil {
			return err
		}
		if expert == nil {
			return apperr.NotFound("Expert you are trying to hire does not exist")
		}
		if expert.UserID == clientID {
			return apperr.Validation("You cannot hire yourself as an expert")
		}

		active, err := tx.Booking.FindActive(ctx, clientID, expertID)
		if err != nil {
			return err
		}
		if active != nil {
			return apperr.Conflict("You already have booking with this expert where status is %s",
				strings.ToLower(active.Status.String()))
		}

		if err := tx.Booking.Create(ctx, booking); err != nil {
			if errors.Is(err, repository.ErrUniqueViolation) {
				return apperr.Conflict("You already have an active booking with this expert")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fail(s.log, "hire expert", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("client_id", clientID.String()),
		zap.String("expert_id", expertID.String()),
	)

	publish(ctx, s.publisher, s.log, events.BookingEvent{
		Type:       events.BookingCreated,
		BookingID:  booking.ID.String(),
		ClientID:   booking.ClientID.String(),
		ExpertID:   booking.ExpertID.String(),
		Status:     booking.Status.String(),
		OccurredAt: booking.RequestedAt,
	})

	return &response.HireResponse{BookingID: booking.ID.String()}, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, callerID, bookingID uuid.UUID, req *request.UpdateBookingStatusRequest) (*response.BookingStatusResponse, error) {
	var booking *entity.Booking
	err := s.tx.WithinTx(ctx, func(tx *repository.Repository) error {
		b, err := tx.Booking.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b == nil {
			return apperr.NotFound("Booking not found.")
		}

		expert, err := tx.Expert.FindByID(ctx, b.ExpertID)
		if err != nil {
			return err
		}
		if expert == nil || expert.UserID != callerID {
			return apperr.Forbidden("Only the hired expert can change the status of this booking.")
		}

		next, err := entity.ParseBookingStatus(req.Status)
		if err != nil {
			return apperr.Validation("Invalid status %q. Allowed values: Pending, Accepted, Canceled, Finished.", req.Status)
		}

		effect, err := lifecycle.Apply(b, next)
		if err != nil {
			return err
		}

		if err := tx.Booking.UpdateStatus(ctx, b.ID, b.Status); err != nil {
			return err
		}
		if effect == lifecycle.IncrementJobsTaken {
			if err := tx.Expert.IncrementJobsTaken(ctx, expert.ID); err != nil {
				return err
			}
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, fail(s.log, "update booking status", err)
	}

	s.log.Info("Booking status updated",
		zap.String("booking_id", booking.ID.String()),
		zap.Stringer("status", booking.Status),
	)

	publish(ctx, s.publisher, s.log, events.BookingEvent{
		Type:      events.BookingStatusChanged,
		BookingID: booking.ID.String(),
		ClientID:  booking.ClientID.String(),
		ExpertID:  booking.ExpertID.String(),
		Status:    booking.Status.String(),
	})

	return &response.BookingStatusResponse{
		BookingID: booking.ID.String(),
		Status:    booking.Status,
	}, nil
}

// Cancel withdraws a booking the expert has not answered yet. The row is
// deleted, not moved to Canceled.
func (s *bookingService) Cancel(ctx context.Context, callerID, bookingID uuid.UUID) error {
	var booking *entity.Booking
	err := s.tx.WithinTx(ctx, func(tx *repository.Repository) error {
		b, err := tx.Booking.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b == nil {
			return apperr.NotFound("Booking not found.")
		}
		if b.ClientID != callerID {
			return apperr.Forbidden("You can only cancel your own bookings.")
		}
		if err := lifecycle.CanCancel(b); err != nil {
			return err
		}

		booking = b
		return tx.Booking.Delete(ctx, b.ID)
	})
	if err != nil {
		return fail(s.log, "cancel booking", err)
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("client_id", callerID.String()),
	)

	publish(ctx, s.publisher, s.log, events.BookingEvent{
		Type:      events.BookingCancelled,
		BookingID: booking.ID.String(),
		ClientID:  booking.ClientID.String(),
		ExpertID:  booking.ExpertID.String(),
	})

	return nil
}

func (s *bookingService) ListBookings(ctx context.Context, callerID uuid.UUID) ([]response.BookingViewResponse, error) {
	var expertID *uuid.UUID

	expert, err := s.repo.Expert.FindByUserID(ctx, callerID)
	if err != nil {
		return nil, fail(s.log, "list bookings", err)
	}
	if expert != nil {
		expertID = &expert.ID
	}

	views, err := s.repo.Booking.ListForParticipant(ctx, callerID, expertID)
	if err != nil {
		return nil, fail(s.log, "list bookings", err)
	}

	result := make([]response.BookingViewResponse, 0, len(views))
	for _, view := range views {
		result = append(result, response.BookingViewToResponse(view, callerID))
	}

	return result, nil
}
