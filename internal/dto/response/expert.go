package response

import "expert-marketplace/internal/data/entity"

type ExpertSummaryResponse struct {
	ID                string  `json:"id"`
	FullName          string  `json:"full_name"`
	ProfilePictureURL string  `json:"profile_picture_url"`
	Category          string  `json:"category"`
	HourlyFee         float64 `json:"hourly_fee"`
	AverageRating     float64 `json:"average_rating"`
}

type ExpertDetailResponse struct {
	ExpertSummaryResponse
	Bio          *string `json:"bio"`
	Requirements string  `json:"requirements"`
	JobsTaken    int     `json:"jobs_taken"`
}

func ExpertToSummary(e *entity.ExpertWithUser) ExpertSummaryResponse {
	return ExpertSummaryResponse{
		ID:                e.ID.String(),
		FullName:          e.FullName,
		ProfilePictureURL: e.ProfilePictureURL,
		Category:          e.Category,
		HourlyFee:         e.HourlyFee,
		AverageRating:     e.AverageRating,
	}
}

func ExpertToDetail(e *entity.ExpertWithUser) ExpertDetailResponse {
	return ExpertDetailResponse{
		ExpertSummaryResponse: ExpertToSummary(e),
		Bio:                   e.UserBio,
		Requirements:          e.Requirements,
		JobsTaken:             e.JobsTaken,
	}
}
