package lifecycle

import (
	"unicode/utf8"

	"expert-marketplace/internal/apperr"
	"expert-marketplace/internal/data/entity"
)

const (
	MinRating        = 1
	MaxRating        = 10
	MaxCommentLength = 100
)

// Review records rating and comment on a finished booking. The checks and
// the write happen together so the caller only has to hold the row lock.
func Review(b *entity.Booking, rating int, comment *string) error {
	if b.Status != entity.BookingStatusFinished {
		return apperr.Validation("You can only review a job once it is marked as Finished.")
	}
	if b.IsReviewed() {
		return apperr.Validation("You have already reviewed this job.")
	}
	if rating < MinRating || rating > MaxRating {
		return apperr.Validation("Rating must be between %d and %d.", MinRating, MaxRating)
	}

	text := ""
	if comment != nil {
		text = *comment
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return apperr.Validation("Review comment cannot exceed %d characters.", MaxCommentLength)
	}

	b.Rating = &rating
	b.ReviewComment = &text
	return nil
}
