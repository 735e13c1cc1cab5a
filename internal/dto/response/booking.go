package response

import (
	"fmt"
	"strings"
	"time"

	"expert-marketplace/internal/data/entity"

	"github.com/google/uuid"
)

const (
	ParticipantClient = "Client"
	ParticipantExpert = "Expert"
)

type HireResponse struct {
	BookingID string `json:"booking_id"`
}

type BookingStatusResponse struct {
	BookingID string               `json:"booking_id"`
	Status    entity.BookingStatus `json:"status"`
}

// BookingViewResponse is one row of the caller's booking list. Role tells
// whether the caller is the client or the expert of the booking.
type BookingViewResponse struct {
	ID            string               `json:"id"`
	ExpertID      string               `json:"expert_id"`
	ClientID      string               `json:"client_id"`
	Description   string               `json:"description"`
	Status        entity.BookingStatus `json:"status"`
	RequestedAt   time.Time            `json:"requested_at"`
	Rating        *int                 `json:"rating"`
	ReviewComment *string              `json:"review_comment"`
	ExpertName    string               `json:"expert_name"`
	ClientName    string               `json:"client_name"`
	ExpertBio     *string              `json:"expert_bio"`
	ClientBio     *string              `json:"client_bio"`
	Role          string               `json:"role"`
}

func BookingViewToResponse(view *entity.BookingParticipantView, callerID uuid.UUID) BookingViewResponse {
	role := ParticipantExpert
	if view.ClientID == callerID {
		role = ParticipantClient
	}

	return BookingViewResponse{
		ID:            view.ID.String(),
		ExpertID:      view.ExpertID.String(),
		ClientID:      view.ClientID.String(),
		Description:   view.Description,
		Status:        view.Status,
		RequestedAt:   view.RequestedAt,
		Rating:        view.Rating,
		ReviewComment: view.ReviewComment,
		ExpertName:    displayName(view.ExpertName, "Expert", view.ExpertUserID),
		ClientName:    displayName(view.ClientName, "Client", view.ClientID),
		ExpertBio:     view.ExpertBio,
		ClientBio:     view.ClientBio,
		Role:          role,
	}
}

func displayName(name, label string, id uuid.UUID) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return fmt.Sprintf("%s #%s", label, id.String())
}
