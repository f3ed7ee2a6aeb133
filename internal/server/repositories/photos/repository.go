// Package photos stores vehicle photo metadata. The image bytes live in
// object storage; installers upload them there directly via presigned URLs.
package photos

import (
	"context"

	"github.com/bmgraphics/fleetops/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.VehiclePhoto) (*models.VehiclePhoto, error)
	ListByVehicle(ctx context.Context, vehicleID string) ([]*models.VehiclePhoto, error)
}
