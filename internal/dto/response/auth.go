package response

import (
	"time"

	"expert-marketplace/internal/data/entity"
)

type AuthResponse struct {
	UserID    string          `json:"user_id"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	FullName  string          `json:"full_name"`
	Email     string          `json:"email"`
	Role      entity.UserRole `json:"role"`
}

type RegisterResponse struct {
	UserID   string          `json:"user_id"`
	ExpertID *string         `json:"expert_id,omitempty"`
	Role     entity.UserRole `json:"role"`
}

func AuthToResponse(user *entity.User, token string, expiresAt time.Time) AuthResponse {
	return AuthResponse{
		UserID:    user.ID.String(),
		Token:     token,
		ExpiresAt: expiresAt,
		FullName:  user.FullName,
		Email:     user.Email,
		Role:      user.Role,
	}
}
