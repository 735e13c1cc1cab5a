package response

import (
	"time"

	"expert-marketplace/internal/data/entity"
)

type ReviewResultResponse struct {
	AverageRating float64 `json:"average_rating"`
	ExpertID      string  `json:"expert_id"`
}

type ExpertReviewResponse struct {
	BookingID     string    `json:"booking_id"`
	ClientID      string    `json:"client_id"`
	ClientName    *string   `json:"client_name"`
	Rating        int       `json:"rating"`
	ReviewComment *string   `json:"review_comment"`
	RequestedAt   time.Time `json:"requested_at"`
}

func ExpertReviewToResponse(review *entity.ExpertReview) ExpertReviewResponse {
	return ExpertReviewResponse{
		BookingID:     review.BookingID.String(),
		ClientID:      review.ClientID.String(),
		ClientName:    review.ClientName,
		Rating:        review.Rating,
		ReviewComment: review.ReviewComment,
		RequestedAt:   review.RequestedAt,
	}
}
