package repository

import (
	"context"
	"errors"
	"fmt"

	"expert-marketplace/internal/data/entity"
	"expert-marketplace/internal/domain/lifecycle"
	"expert-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error
	SetReview(ctx context.Context, id uuid.UUID, rating int, comment string) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Business queries
	FindActive(ctx context.Context, clientID, expertID uuid.UUID) (*entity.Booking, error)
	ListForParticipant(ctx context.Context, clientID uuid.UUID, expertID *uuid.UUID) ([]*entity.BookingParticipantView, error)
	RatingsByExpert(ctx context.Context, expertID uuid.UUID) ([]int, error)
	ReviewsByExpert(ctx context.Context, expertID uuid.UUID) ([]*entity.ExpertReview, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `b.id, b.client_id, b.expert_id, b.description, b.status, b.requested_at, b.rating, b.review_comment`

func scanBooking(row pgx.Row, extra ...any) (*entity.Booking, error) {
	var booking entity.Booking
	dest := []any{
		&booking.ID,
		&booking.ClientID,
		&booking.ExpertID,
		&booking.Description,
		&booking.Status,
		&booking.RequestedAt,
		&booking.Rating,
		&booking.ReviewComment,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, client_id, expert_id, description, status, requested_at, rating, review_comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.ClientID,
		booking.ExpertID,
		booking.Description,
		booking.Status,
		booking.RequestedAt,
		booking.Rating,
		booking.ReviewComment,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create booking %s: %w", booking.ID.String(), ErrUniqueViolation)
		}
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("client_id", booking.ClientID.String()),
			zap.String("expert_id", booking.ExpertID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), err)
	}

	return nil
}

func (r *bookingRepository) findOne(ctx context.Context, query string, op string, args ...any) (*entity.Booking, error) {
	booking, err := scanBooking(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return booking, nil
}

// FindByIDForUpdate locks the booking row until the surrounding transaction ends.
func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1 FOR UPDATE`
	return r.findOne(ctx, query, "lock booking", id)
}

// FindActive returns the booking between the pair whose status still blocks
// a new hire, if any.
func (r *bookingRepository) FindActive(ctx context.Context, clientID, expertID uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		WHERE b.client_id = $1 AND b.expert_id = $2 AND b.status = ANY($3)
		LIMIT 1
	`
	return r.findOne(ctx, query, "find active booking", clientID, expertID, activeStatusNames())
}

func activeStatusNames() []string {
	statuses := lifecycle.ActiveStatuses()
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return names
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.Stringer("status", status),
		)
		return fmt.Errorf("update booking status %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

// SetReview writes the rating once. A booking that already carries a rating
// is left untouched and reported as an error.
func (r *bookingRepository) SetReview(ctx context.Context, id uuid.UUID, rating int, comment string) error {
	query := `
		UPDATE bookings
		SET rating = $2, review_comment = $3
		WHERE id = $1 AND rating IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, rating, comment)
	if err != nil {
		r.log.Error("Failed to set booking review",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("set review on booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found or already reviewed", id.String())
	}

	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM bookings WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("delete booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

// ListForParticipant returns bookings where clientID is the client, plus those
// served by expertID when it is set, newest first.
func (r *bookingRepository) ListForParticipant(ctx context.Context, clientID uuid.UUID, expertID *uuid.UUID) ([]*entity.BookingParticipantView, error) {
	query := `
		SELECT ` + bookingColumns + `,
		       e.user_id, eu.full_name, eu.bio, cu.full_name, cu.bio
		FROM bookings b
		JOIN experts e ON e.id = b.expert_id
		JOIN users eu ON eu.id = e.user_id
		JOIN users cu ON cu.id = b.client_id
		WHERE b.client_id = $1 OR ($2::uuid IS NOT NULL AND b.expert_id = $2)
		ORDER BY b.requested_at DESC
	`

	rows, err := r.db.Query(ctx, query, clientID, expertID)
	if err != nil {
		r.log.Error("Failed to list bookings for participant",
			zap.Error(err),
			zap.String("client_id", clientID.String()),
		)
		return nil, fmt.Errorf("list bookings for %s: %w", clientID.String(), err)
	}
	defer rows.Close()

	views := []*entity.BookingParticipantView{}
	for rows.Next() {
		var view entity.BookingParticipantView
		booking, err := scanBooking(rows,
			&view.ExpertUserID,
			&view.ExpertName,
			&view.ExpertBio,
			&view.ClientName,
			&view.ClientBio,
		)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		view.Booking = *booking
		views = append(views, &view)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	r.log.Debug("Bookings listed",
		zap.String("client_id", clientID.String()),
		zap.Int("count", len(views)),
	)

	return views, nil
}

func (r *bookingRepository) RatingsByExpert(ctx context.Context, expertID uuid.UUID) ([]int, error) {
	query := `SELECT rating FROM bookings WHERE expert_id = $1 AND rating IS NOT NULL`

	rows, err := r.db.Query(ctx, query, expertID)
	if err != nil {
		r.log.Error("Failed to load ratings",
			zap.Error(err),
			zap.String("expert_id", expertID.String()),
		)
		return nil, fmt.Errorf("load ratings for expert %s: %w", expertID.String(), err)
	}
	defer rows.Close()

	ratings := []int{}
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating rows: %w", err)
	}

	return ratings, nil
}

func (r *bookingRepository) ReviewsByExpert(ctx context.Context, expertID uuid.UUID) ([]*entity.ExpertReview, error) {
	query := `
		SELECT b.id, b.client_id, u.full_name, b.rating, b.review_comment, b.requested_at
		FROM bookings b
		LEFT JOIN users u ON u.id = b.client_id
		WHERE b.expert_id = $1 AND b.rating IS NOT NULL
		ORDER BY b.requested_at DESC
	`

	rows, err := r.db.Query(ctx, query, expertID)
	if err != nil {
		r.log.Error("Failed to load expert reviews",
			zap.Error(err),
			zap.String("expert_id", expertID.String()),
		)
		return nil, fmt.Errorf("load reviews for expert %s: %w", expertID.String(), err)
	}
	defer rows.Close()

	reviews := []*entity.ExpertReview{}
	for rows.Next() {
		var review entity.ExpertReview
		err := rows.Scan(
			&review.BookingID,
			&review.ClientID,
			&review.ClientName,
			&review.Rating,
			&review.ReviewComment,
			&review.RequestedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, &review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}
