package vehicles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bmgraphics/fleetops/internal/common"
	"github.com/bmgraphics/fleetops/internal/dbx"
	"github.com/bmgraphics/fleetops/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const vehicleColumns = `id, vin, vehicle_year, vehicle_make, vehicle_model, vehicle_trim,
	body_class, drive_type, fuel_type, doors, gvwr,
	catalog_id, part_number, customer, end_customer, po_line_id,
	scanned_by, scanned_at, exported_at`

func scanVehicle(row interface{ Scan(...any) error }) (*models.ScannedVehicle, error) {
	v := &models.ScannedVehicle{}
	err := row.Scan(&v.ID, &v.VIN, &v.VehicleYear, &v.VehicleMake, &v.VehicleModel, &v.VehicleTrim,
		&v.BodyClass, &v.DriveType, &v.FuelType, &v.Doors, &v.GVWR,
		&v.CatalogID, &v.PartNumber, &v.Customer, &v.EndCustomer, &v.POLineID,
		&v.ScannedBy, &v.ScannedAt, &v.ExportedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *PostgresRepository) Create(ctx context.Context, v *models.ScannedVehicle) (*models.ScannedVehicle, error) {
	query := `
		INSERT INTO scanned_vehicles
			(id, vin, vehicle_year, vehicle_make, vehicle_model, vehicle_trim,
			 body_class, drive_type, fuel_type, doors, gvwr,
			 catalog_id, part_number, customer, end_customer, scanned_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING scanned_at
	`
	err := r.db.QueryRowContext(ctx, query,
		v.ID, v.VIN, v.VehicleYear, v.VehicleMake, v.VehicleModel, v.VehicleTrim,
		v.BodyClass, v.DriveType, v.FuelType, v.Doors, v.GVWR,
		v.CatalogID, v.PartNumber, v.Customer, v.EndCustomer, v.ScannedBy).Scan(&v.ScannedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.ScannedVehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM scanned_vehicles WHERE id = $1`
	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]*models.ScannedVehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM scanned_vehicles ORDER BY scanned_at DESC LIMIT $1`
	return r.queryMany(ctx, query, limit)
}

func (r *PostgresRepository) ListUnexported(ctx context.Context) ([]*models.ScannedVehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM scanned_vehicles WHERE exported_at IS NULL ORDER BY scanned_at`
	return r.queryMany(ctx, query)
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]*models.ScannedVehicle, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ScannedVehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) SetPOLine(ctx context.Context, vehicleID, lineID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE scanned_vehicles SET po_line_id = $2 WHERE id = $1`, vehicleID, lineID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) MarkExported(ctx context.Context, ids []string, at time.Time) error {
	query := `UPDATE scanned_vehicles SET exported_at = $2 WHERE id = ANY($1) AND exported_at IS NULL`
	if _, err := r.db.ExecContext(ctx, query, ids, at); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
