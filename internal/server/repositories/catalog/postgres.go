// Package catalog provides the PostgreSQL-backed repository for the parts
// catalog administrators maintain.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

const partColumns = `id, part_number, customer, end_customer, vehicle_type, graphic_package, price, proof_pages, active, created_at`

func scanPart(row interface{ Scan(...any) error }) (*models.CatalogPart, error) {
	p := &models.CatalogPart{}
	err := row.Scan(&p.ID, &p.PartNumber, &p.Customer, &p.EndCustomer,
		&p.VehicleType, &p.GraphicPackage, &p.Price, &p.ProofPages, &p.Active, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.CatalogPart) (*models.CatalogPart, error) {
	query := `
		INSERT INTO catalog (id, part_number, customer, end_customer, vehicle_type, graphic_package, price, proof_pages, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.PartNumber, p.Customer, p.EndCustomer, p.VehicleType,
		p.GraphicPackage, p.Price, p.ProofPages, p.Active).Scan(&p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.CatalogPart) error {
	query := `
		UPDATE catalog
		SET part_number = $2, customer = $3, end_customer = $4, vehicle_type = $5,
		    graphic_package = $6, price = $7, proof_pages = $8, active = $9
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		p.ID, p.PartNumber, p.Customer, p.EndCustomer, p.VehicleType,
		p.GraphicPackage, p.Price, p.ProofPages, p.Active)
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

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.CatalogPart, error) {
	query := `SELECT ` + partColumns + ` FROM catalog WHERE id = $1`
	p, err := scanPart(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context, activeOnly bool) ([]*models.CatalogPart, error) {
	query := `SELECT ` + partColumns + ` FROM catalog`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY part_number`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.CatalogPart
	for rows.Next() {
		p, err := scanPart(rows)
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
