package service

import (
	"github.com/brokersim/backend/internal/model"
	"github.com/brokersim/backend/internal/repository"
)

// PositionService exposes read access to per-product-type positions.
// All position mutation happens inside the reconciliation engine.
type PositionService struct {
	positionRepo *repository.PositionRepository
}

// NewPositionService creates a new PositionService with the provided repository.
func NewPositionService(positionRepo *repository.PositionRepository) *PositionService {
	return &PositionService{positionRepo: positionRepo}
}

// GetPositions retrieves all of a user's open positions.
func (s *PositionService) GetPositions(userID string) ([]model.Position, error) {
	return s.positionRepo.GetPositionsByUser(userID)
}
