package wire

import (
	"expert-marketplace/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireExpert(r chi.Router, expertHandler *adaptor.ExpertHandler) {
	// ==================== PUBLIC ROUTES ====================
	r.Route("/api/experts", func(r chi.Router) {
		r.Get("/", expertHandler.ListExperts)
		r.Get("/categories", expertHandler.Categories)
		r.Get("/{id}", expertHandler.GetExpert)
	})
}
