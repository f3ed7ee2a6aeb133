package photos

import (
	"context"
	"fmt"

	"github.com/bmgraphics/fleetops/internal/dbx"
	"github.com/bmgraphics/fleetops/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.VehiclePhoto) (*models.VehiclePhoto, error) {
	query := `
		INSERT INTO vehicle_photos (id, vehicle_id, storage_path, photo_type, taken_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING taken_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.VehicleID, p.StoragePath, p.PhotoType, p.TakenBy).Scan(&p.TakenAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) ListByVehicle(ctx context.Context, vehicleID string) ([]*models.VehiclePhoto, error) {
	query := `
		SELECT id, vehicle_id, storage_path, photo_type, taken_by, taken_at
		FROM vehicle_photos WHERE vehicle_id = $1 ORDER BY taken_at
	`
	rows, err := r.db.QueryContext(ctx, query, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.VehiclePhoto
	for rows.Next() {
		p := &models.VehiclePhoto{}
		err := rows.Scan(&p.ID, &p.VehicleID, &p.StoragePath, &p.PhotoType, &p.TakenBy, &p.TakenAt)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
