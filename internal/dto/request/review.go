package request

// Rating and comment bounds are enforced by the booking lifecycle so the
// client sees the same message whichever layer catches them.
type SubmitReviewRequest struct {
	BookingID     string  `json:"booking_id" validate:"required,uuid"`
	Rating        int     `json:"rating"`
	ReviewComment *string `json:"review_comment,omitempty"`
}
