package usecase

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"expert-marketplace/internal/apperr"
	"expert-marketplace/internal/data/entity"
	"expert-marketplace/internal/data/repository"
	"expert-marketplace/internal/dto/request"
	"expert-marketplace/internal/dto/response"
	"expert-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const minPasswordLength = 8

type UserService interface {
	Me(ctx context.Context, userID uuid.UUID) (*response.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.ProfileResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error
}

type userService struct {
	repo *repository.Repository
	tx   repository.Transactor
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, tx repository.Transactor, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		tx:   tx,
		log:  log.With(zap.String("service", "user")),
	}
}

func (us *userService) Me(ctx context.Context, userID uuid.UUID) (*response.ProfileResponse, error) {
	user, expert, err := us.load(ctx, userID)
	if err != nil {
		return nil, fail(us.log, "get profile", err)
	}

	resp := response.ProfileToResponse(user, expert)
	return &resp, nil
}

// UpdateProfile overwrites only the fields that are present and non-empty.
// Expert fields are ignored for plain users.
func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.ProfileResponse, error) {
	user, expert, err := us.load(ctx, userID)
	if err != nil {
		return nil, fail(us.log, "update profile", err)
	}

	if v := nonEmpty(req.FullName); v != nil {
		user.FullName = *v
	}
	if v := nonEmpty(req.Bio); v != nil {
		user.Bio = v
	}
	if v := nonEmpty(req.ProfilePictureURL); v != nil {
		user.ProfilePictureURL = *v
	}

	updateExpert := user.Role == entity.RoleExpert && expert != nil
	if updateExpert {
		if v := nonEmpty(req.Category); v != nil {
			expert.Category = *v
		}
		if req.HourlyFee != nil && *req.HourlyFee > 0 {
			expert.HourlyFee = *req.HourlyFee
		}
		if v := nonEmpty(req.Requirements); v != nil {
			expert.Requirements = *v
		}
	}

	err = us.tx.WithinTx(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Update(ctx, user); err != nil {
			return err
		}
		if updateExpert {
			return tx.Expert.Update(ctx, expert)
		}
		return nil
	})
	if err != nil {
		return nil, fail(us.log, "update profile", err)
	}

	us.log.Info("Profile updated", zap.String("user_id", userID.String()))

	resp := response.ProfileToResponse(user, expert)
	return &resp, nil
}

func (us *userService) ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error {
	if err := checkPasswordStrength(req.Password); err != nil {
		return err
	}

	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		return fail(us.log, "change password", err)
	}
	if user == nil {
		return apperr.NotFound("User not found.")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fail(us.log, "hash password", err)
	}

	if err := us.repo.User.UpdatePassword(ctx, userID, hash); err != nil {
		return fail(us.log, "change password", err)
	}

	us.log.Info("Password changed", zap.String("user_id", userID.String()))
	return nil
}

func (us *userService) load(ctx context.Context, userID uuid.UUID) (*entity.User, *entity.Expert, error) {
	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, apperr.NotFound("User not found.")
	}

	expert, err := us.repo.Expert.FindByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	return user, expert, nil
}

func checkPasswordStrength(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return apperr.Validation("Password must be at least %d characters long.", minPasswordLength)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return apperr.Validation("Password must contain at least one letter and one digit.")
	}

	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
