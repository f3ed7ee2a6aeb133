package profiles

import (
	"context"

	"github.com/bmgraphics/fleetops/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Profile) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}
