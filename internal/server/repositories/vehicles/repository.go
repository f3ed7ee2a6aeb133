// Package vehicles stores scanned vehicle records.
package vehicles

import (
	"context"
	"time"

	"github.com/bmgraphics/fleetops/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, v *models.ScannedVehicle) (*models.ScannedVehicle, error)
	GetByID(ctx context.Context, id string) (*models.ScannedVehicle, error)
	List(ctx context.Context, limit int) ([]*models.ScannedVehicle, error)

	// SetPOLine links the vehicle to the line item the matcher assigned.
	SetPOLine(ctx context.Context, vehicleID, lineID string) error

	// ListUnexported returns vehicles that have not appeared on a report
	// yet, oldest first.
	ListUnexported(ctx context.Context) ([]*models.ScannedVehicle, error)

	// MarkExported stamps exported_at on the given rows. Rows already
	// stamped are left untouched.
	MarkExported(ctx context.Context, ids []string, at time.Time) error
}
