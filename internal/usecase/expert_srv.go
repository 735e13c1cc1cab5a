package usecase

import (
	"context"

	"expert-marketplace/internal/apperr"
	"expert-marketplace/internal/data/repository"
	"expert-marketplace/internal/dto/request"
	"expert-marketplace/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ExpertService interface {
	ListExperts(ctx context.Context, req *request.ListExpertsRequest) ([]response.ExpertSummaryResponse, error)
	Categories(ctx context.Context) ([]string, error)
	GetExpert(ctx context.Context, id uuid.UUID) (*response.ExpertDetailResponse, error)
}

type expertService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewExpertService(repo *repository.Repository, log *zap.Logger) ExpertService {
	return &expertService{
		repo: repo,
		log:  log.With(zap.String("service", "expert")),
	}
}

func (s *expertService) ListExperts(ctx context.Context, req *request.ListExpertsRequest) ([]response.ExpertSummaryResponse, error) {
	experts, err := s.repo.Expert.List(ctx, repository.ExpertFilter{
		Categories: req.Categories,
		MinPrice:   req.MinPrice,
		MaxPrice:   req.MaxPrice,
	})
	if err != nil {
		return nil, fail(s.log, "list experts", err)
	}

	result := make([]response.ExpertSummaryResponse, 0, len(experts))
	for _, e := range experts {
		result = append(result, response.ExpertToSummary(e))
	}

	return result, nil
}

func (s *expertService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Expert.Categories(ctx)
	if err != nil {
		return nil, fail(s.log, "list categories", err)
	}
	return categories, nil
}

func (s *expertService) GetExpert(ctx context.Context, id uuid.UUID) (*response.ExpertDetailResponse, error) {
	expert, err := s.repo.Expert.FindDetail(ctx, id)
	if err != nil {
		return nil, fail(s.log, "get expert", err)
	}
	if expert == nil {
		return nil, apperr.NotFound("Expert not found")
	}

	resp := response.ExpertToDetail(expert)
	return &resp, nil
}
