package wire

import (
	"net/http"

	"expert-marketplace/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler, auth func(http.Handler) http.Handler) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/bookings/expert-reviews/{expertId}", reviewHandler.ExpertReviews)

	// ==================== PROTECTED ROUTES ====================
	r.With(auth).Patch("/api/bookings/review", reviewHandler.SubmitReview)
}
