package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"expert-marketplace/internal/apperr"
	"expert-marketplace/internal/data/entity"
	"expert-marketplace/internal/data/repository"
	"expert-marketplace/internal/dto/request"
	"expert-marketplace/internal/dto/response"
	"expert-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.RegisterResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
}

type authService struct {
	repo   *repository.Repository
	tx     repository.Transactor
	tokens utils.TokenManager
	now    func() time.Time
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	tx repository.Transactor,
	tokens utils.TokenManager,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		tx:     tx,
		tokens: tokens,
		now:    time.Now,
		log:    log.With(zap.String("service", "auth")),
	}
}

// Register creates the user and, for experts, the expert profile in one
// transaction. Either both rows exist afterwards or neither does.
func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.RegisterResponse, error) {
	email := strings.TrimSpace(req.Email)

	// 1. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fail(s.log, "hash password", err)
	}

	// 2. Build entities
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: s.now().UTC(),
		},
		FullName:          strings.TrimSpace(req.FullName),
		Email:             email,
		PasswordHash:      hashedPassword,
		Role:              entity.RoleUser,
		ProfilePictureURL: entity.DefaultProfilePictureURL,
	}

	var expert *entity.Expert
	if req.IsExpert {
		user.Role = entity.RoleExpert
		expert = &entity.Expert{
			ID:           uuid.New(),
			UserID:       user.ID,
			Category:     strings.TrimSpace(deref(req.Category)),
			Requirements: deref(req.Requirements),
			IsPublic:     true,
		}
		if req.HourlyFee != nil {
			expert.HourlyFee = *req.HourlyFee
		}
	}

	// 3. Save inside a transaction
	err = s.tx.WithinTx(ctx, func(tx *repository.Repository) error {
		existing, err := tx.User.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Conflict("Email already registered.")
		}

		if err := tx.User.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrUniqueViolation) {
				return apperr.Conflict("Email already registered.")
			}
			return err
		}

		if expert != nil {
			return tx.Expert.Create(ctx, expert)
		}
		return nil
	})
	if err != nil {
		return nil, fail(s.log, "register", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	resp := &response.RegisterResponse{
		UserID: user.ID.String(),
		Role:   user.Role,
	}
	if expert != nil {
		id := expert.ID.String()
		resp.ExpertID = &id
	}

	return resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	user, err := s.repo.User.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, fail(s.log, "login", err)
	}

	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid credentials", zap.String("email", req.Email))
		return nil, apperr.Unauthorized("Invalid credentials.")
	}

	token, expiresAt, err := s.tokens.Generate(user.ID, string(user.Role))
	if err != nil {
		return nil, fail(s.log, "issue token", err)
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	resp := response.AuthToResponse(user, token, expiresAt)
	return &resp, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
