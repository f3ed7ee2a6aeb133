package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bmgraphics/fleetops/internal/common"
	"github.com/bmgraphics/fleetops/internal/server/models"
	"github.com/bmgraphics/fleetops/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// CatalogService maintains the parts catalog.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{db: db, repomanager: m}
}

func (s *CatalogService) Create(ctx context.Context, p *models.CatalogPart) (*models.CatalogPart, error) {
	if p.PartNumber == "" || p.Customer == "" {
		return nil, fmt.Errorf("%w: part number and customer are required", common.ErrorValidation)
	}
	p.ID = uuid.NewString()
	part, err := s.repomanager.Catalog(s.db).Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("error creating part: %v", err)
	}
	return part, nil
}

func (s *CatalogService) Update(ctx context.Context, p *models.CatalogPart) error {
	if p.ID == "" || p.PartNumber == "" || p.Customer == "" {
		return fmt.Errorf("%w: id, part number and customer are required", common.ErrorValidation)
	}
	return s.repomanager.Catalog(s.db).Update(ctx, p)
}

func (s *CatalogService) GetByID(ctx context.Context, id string) (*models.CatalogPart, error) {
	return s.repomanager.Catalog(s.db).GetByID(ctx, id)
}

func (s *CatalogService) List(ctx context.Context, activeOnly bool) ([]*models.CatalogPart, error) {
	return s.repomanager.Catalog(s.db).List(ctx, activeOnly)
}
