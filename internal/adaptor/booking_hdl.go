package adaptor

import (
	"fmt"
	"net/http"

	"expert-marketplace/internal/dto/request"
	"expert-marketplace/internal/usecase"
	"expert-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// Hire handles POST /api/bookings/hire (protected)
func (h *BookingHandler) Hire(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req request.HireRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.Hire(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "hire expert")
		return
	}

	utils.ResponseCreated(w, "Booking created successfully", resp)
}

// UpdateStatus handles PATCH /api/bookings/{id}/status (protected, hired expert only)
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	bookingID, ok := pathUUID(w, r, "id", "booking")
	if !ok {
		return
	}

	var req request.UpdateBookingStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.UpdateStatus(r.Context(), userID, bookingID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update booking status")
		return
	}

	utils.ResponseSuccess(w, fmt.Sprintf("Booking status updated to %s.", resp.Status), resp)
}

// Cancel handles DELETE /api/bookings/{id} (protected, client only)
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	bookingID, ok := pathUUID(w, r, "id", "booking")
	if !ok {
		return
	}

	if err := h.service.Cancel(r.Context(), userID, bookingID); err != nil {
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled and deleted successfully.", nil)
}

// MyBookings handles GET /api/bookings/my-bookings (protected)
func (h *BookingHandler) MyBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	bookings, err := h.service.ListBookings(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}
