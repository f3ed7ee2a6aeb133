package catalog

import (
	"context"

	"github.com/bmgraphics/fleetops/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.CatalogPart) (*models.CatalogPart, error)
	Update(ctx context.Context, p *models.CatalogPart) error
	GetByID(ctx context.Context, id string) (*models.CatalogPart, error)
	List(ctx context.Context, activeOnly bool) ([]*models.CatalogPart, error)
}
