package request

// Empty fields leave the stored value unchanged.
type UpdateProfileRequest struct {
	FullName          *string  `json:"full_name,omitempty" validate:"omitempty,max=100"`
	Bio               *string  `json:"bio,omitempty" validate:"omitempty,max=1000"`
	ProfilePictureURL *string  `json:"profile_picture_url,omitempty" validate:"omitempty,url"`
	Category          *string  `json:"category,omitempty" validate:"omitempty,max=50"`
	HourlyFee         *float64 `json:"hourly_fee,omitempty"`
	Requirements      *string  `json:"requirements,omitempty" validate:"omitempty,max=1000"`
}

type ChangePasswordRequest struct {
	Password string `json:"password"`
}
