package service

import (
	"context"
	"database/sql"
	"errors"

	"toolshare-backend/internal/domain"
	"toolshare-backend/internal/repository"
)

type toolService struct {
	toolRepo repository.ToolRepository
	userRepo repository.UserRepository
}

func NewToolService(toolRepo repository.ToolRepository, userRepo repository.UserRepository) ToolService {
	return &toolService{toolRepo: toolRepo, userRepo: userRepo}
}

func (s *toolService) GetTool(ctx context.Context, id int32) (*domain.Tool, error) {
	tool, err := s.toolRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrToolNotFound
		}
		return nil, err
	}

	// Owner profile is embedded so listings can show contact details
	// without a second round trip.
	owner, err := s.userRepo.GetByID(ctx, tool.OwnerID)
	if err == nil {
		tool.Owner = owner
	}
	return tool, nil
}

func (s *toolService) ListTools(ctx context.Context, category string, page, pageSize int32) ([]domain.Tool, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.toolRepo.List(ctx, category, page, pageSize)
}
