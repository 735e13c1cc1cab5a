package adaptor

import (
	"net/http"

	"expert-marketplace/internal/dto/request"
	"expert-marketplace/internal/usecase"
	"expert-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type ExpertHandler struct {
	service usecase.ExpertService
	log     *zap.Logger
}

func NewExpertHandler(service usecase.ExpertService, log *zap.Logger) *ExpertHandler {
	return &ExpertHandler{
		service: service,
		log:     log.With(zap.String("handler", "expert")),
	}
}

// ListExperts handles GET /api/experts?categories=a,b&min_price=&max_price= (public)
func (h *ExpertHandler) ListExperts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.ListExpertsRequest{
		Categories: utils.SplitCSV(query.Get("categories")),
		MinPrice:   utils.ParseOptionalFloat(query.Get("min_price")),
		MaxPrice:   utils.ParseOptionalFloat(query.Get("max_price")),
	}

	experts, err := h.service.ListExperts(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list experts")
		return
	}

	utils.ResponseSuccess(w, "success", experts)
}

// Categories handles GET /api/experts/categories (public)
func (h *ExpertHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list categories")
		return
	}

	utils.ResponseSuccess(w, "success", categories)
}

// GetExpert handles GET /api/experts/{id} (public)
func (h *ExpertHandler) GetExpert(w http.ResponseWriter, r *http.Request) {
	expertID, ok := pathUUID(w, r, "id", "expert")
	if !ok {
		return
	}

	expert, err := h.service.GetExpert(r.Context(), expertID)
	if err != nil {
		handleServiceError(w, h.log, err, "get expert")
		return
	}

	utils.ResponseSuccess(w, "success", expert)
}
