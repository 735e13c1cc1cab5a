package request

type HireRequest struct {
	ExpertID    string `json:"expert_id" validate:"required,uuid"`
	Description string `json:"description" validate:"max=500"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
