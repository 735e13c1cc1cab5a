package response

import (
	"time"

	"expert-marketplace/internal/data/entity"
)

// ProfileResponse is the caller's own profile. Expert fields are zero for
// plain users and AverageRating is nil.
type ProfileResponse struct {
	ID                string          `json:"id"`
	FullName          string          `json:"full_name"`
	Email             string          `json:"email"`
	Role              entity.UserRole `json:"role"`
	Bio               *string         `json:"bio"`
	ProfilePictureURL string          `json:"profile_picture_url"`
	Category          string          `json:"category"`
	HourlyFee         float64         `json:"hourly_fee"`
	Requirements      string          `json:"requirements"`
	AverageRating     *float64        `json:"average_rating"`
	JobsTaken         int             `json:"jobs_taken"`
	CreatedAt         time.Time       `json:"created_at"`
}

func ProfileToResponse(user *entity.User, expert *entity.Expert) ProfileResponse {
	resp := ProfileResponse{
		ID:                user.ID.String(),
		FullName:          user.FullName,
		Email:             user.Email,
		Role:              user.Role,
		Bio:               user.Bio,
		ProfilePictureURL: user.ProfilePictureURL,
		CreatedAt:         user.CreatedAt,
	}

	if expert != nil {
		avg := expert.AverageRating
		resp.Category = expert.Category
		resp.HourlyFee = expert.HourlyFee
		resp.Requirements = expert.Requirements
		resp.AverageRating = &avg
		resp.JobsTaken = expert.JobsTaken
	}

	return resp
}
