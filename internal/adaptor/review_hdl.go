package adaptor

import (
	"net/http"

	"expert-marketplace/internal/dto/request"
	"expert-marketplace/internal/usecase"
	"expert-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// SubmitReview handles PATCH /api/bookings/review (protected, client only)
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req request.SubmitReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.SubmitReview(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "submit review")
		return
	}

	utils.ResponseSuccess(w, "Review submitted successfully!", resp)
}

// ExpertReviews handles GET /api/bookings/expert-reviews/{expertId} (public)
func (h *ReviewHandler) ExpertReviews(w http.ResponseWriter, r *http.Request) {
	expertID, ok := pathUUID(w, r, "expertId", "expert")
	if !ok {
		return
	}

	reviews, err := h.service.ExpertReviews(r.Context(), expertID)
	if err != nil {
		handleServiceError(w, h.log, err, "get expert reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}
