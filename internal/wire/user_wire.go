package wire

import (
	"net/http"

	"expert-marketplace/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireUser configures the caller's own profile routes
func wireUser(r chi.Router, userHandler *adaptor.UserHandler, auth func(http.Handler) http.Handler) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Get("/api/users/me", userHandler.Me)
		r.Put("/api/users/me", userHandler.UpdateProfile)
		r.Post("/api/users/change-password", userHandler.ChangePassword)
	})
}
