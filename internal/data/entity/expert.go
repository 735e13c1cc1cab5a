package entity

import "github.com/google/uuid"

// Expert is the provider profile of a user with role Expert.
// AverageRating is derived from the expert's rated bookings and is only
// ever written by the rating aggregator.
type Expert struct {
	ID            uuid.UUID `db:"id"`
	UserID        uuid.UUID `db:"user_id"`
	Category      string    `db:"category"`
	HourlyFee     float64   `db:"hourly_fee"`
	Bio           string    `db:"bio"`
	Requirements  string    `db:"requirements"`
	IsPublic      bool      `db:"is_public"`
	JobsTaken     int       `db:"jobs_taken"`
	AverageRating float64   `db:"average_rating"`
}

// ExpertWithUser is the read model used by the directory endpoints.
type ExpertWithUser struct {
	Expert
	FullName          string  `db:"full_name"`
	ProfilePictureURL string  `db:"profile_picture_url"`
	UserBio           *string `db:"user_bio"`
}
