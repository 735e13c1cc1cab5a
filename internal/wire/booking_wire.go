package wire

import (
	"net/http"

	"expert-marketplace/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, auth func(http.Handler) http.Handler) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(auth)

		// POST /api/bookings/hire - client hires an expert
		r.Post("/api/bookings/hire", bookingHandler.Hire)

		// GET /api/bookings/my-bookings - bookings as client and as expert
		r.Get("/api/bookings/my-bookings", bookingHandler.MyBookings)

		// PATCH /api/bookings/{id}/status - hired expert moves the booking on
		r.Patch("/api/bookings/{id}/status", bookingHandler.UpdateStatus)

		// DELETE /api/bookings/{id} - client withdraws a pending booking
		r.Delete("/api/bookings/{id}", bookingHandler.Cancel)
	})
}
