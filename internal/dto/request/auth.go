package request

type RegisterRequest struct {
	FullName     string   `json:"full_name" validate:"required,min=2,max=100"`
	Email        string   `json:"email" validate:"required,email"`
	Password     string   `json:"password" validate:"required,min=8"`
	IsExpert     bool     `json:"is_expert"`
	Category     *string  `json:"category,omitempty" validate:"omitempty,max=50"`
	HourlyFee    *float64 `json:"hourly_fee,omitempty" validate:"omitempty,gte=0"`
	Requirements *string  `json:"requirements,omitempty" validate:"omitempty,max=1000"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
