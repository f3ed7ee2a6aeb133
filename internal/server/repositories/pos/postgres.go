package pos

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

// Create inserts the order and its line items. Callers wanting atomicity run
// it on a repository bound to a transaction (see dbx.WithTx).
func (r *PostgresRepository) Create(ctx context.Context, po *models.PurchaseOrder) (*models.PurchaseOrder, error) {
	query := `
		INSERT INTO purchase_orders (id, po_number, customer, status, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		po.ID, po.PONumber, po.Customer, po.Status, po.Notes, po.CreatedBy).Scan(&po.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	lineQuery := `
		INSERT INTO po_line_items (id, po_id, catalog_id, part_number, quantity, installed, unit_price)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7)
	`
	for i := range po.LineItems {
		li := &po.LineItems[i]
		li.POID = po.ID
		_, err := r.db.ExecContext(ctx, lineQuery,
			li.ID, li.POID, li.CatalogID, li.PartNumber, li.Quantity, li.Installed, li.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}
	return po, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	query := `
		SELECT id, po_number, customer, status, COALESCE(notes, ''), created_by, created_at
		FROM purchase_orders WHERE id = $1
	`
	po := &models.PurchaseOrder{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&po.ID, &po.PONumber, &po.Customer, &po.Status, &po.Notes, &po.CreatedBy, &po.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	lines, err := r.linesForPO(ctx, id)
	if err != nil {
		return nil, err
	}
	po.LineItems = lines
	return po, nil
}

func (r *PostgresRepository) linesForPO(ctx context.Context, poID string) ([]models.POLineItem, error) {
	query := `
		SELECT id, po_id, COALESCE(catalog_id::text, ''), part_number, quantity, installed, unit_price
		FROM po_line_items WHERE po_id = $1 ORDER BY part_number, id
	`
	rows, err := r.db.QueryContext(ctx, query, poID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var lines []models.POLineItem
	for rows.Next() {
		var li models.POLineItem
		err := rows.Scan(&li.ID, &li.POID, &li.CatalogID, &li.PartNumber, &li.Quantity, &li.Installed, &li.UnitPrice)
		if err != nil {
			return nil, err
		}
		lines = append(lines, li)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *PostgresRepository) List(ctx context.Context, status string) ([]*models.PurchaseOrder, error) {
	query := `
		SELECT id, po_number, customer, status, COALESCE(notes, ''), created_by, created_at
		FROM purchase_orders
	`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.PurchaseOrder
	for rows.Next() {
		po := &models.PurchaseOrder{}
		err := rows.Scan(&po.ID, &po.PONumber, &po.Customer, &po.Status, &po.Notes, &po.CreatedBy, &po.CreatedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, po)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, po := range result {
		lines, err := r.linesForPO(ctx, po.ID)
		if err != nil {
			return nil, err
		}
		po.LineItems = lines
	}
	return result, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE purchase_orders SET status = $2 WHERE id = $1`, id, status)
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

func (r *PostgresRepository) OpenLinesForPart(ctx context.Context, partNumber string) ([]*OpenLine, error) {
	query := `
		SELECT li.id, li.po_id, COALESCE(li.catalog_id::text, ''), li.part_number,
		       li.quantity, li.installed, li.unit_price, po.po_number
		FROM po_line_items li
		JOIN purchase_orders po ON po.id = li.po_id
		WHERE po.status = 'open' AND li.part_number = $1 AND li.installed < li.quantity
		ORDER BY po.created_at, li.id
	`
	rows, err := r.db.QueryContext(ctx, query, partNumber)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*OpenLine
	for rows.Next() {
		line := &OpenLine{}
		err := rows.Scan(&line.ID, &line.POID, &line.CatalogID, &line.PartNumber,
			&line.Quantity, &line.Installed, &line.UnitPrice, &line.PONumber)
		if err != nil {
			return nil, err
		}
		result = append(result, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// IncrementInstalled is the matcher's only mutation of fulfillment state.
// The WHERE clause makes the bump atomic: two concurrent confirmations of
// the last slot on a line race on the row lock, and exactly one sees a row
// affected.
func (r *PostgresRepository) IncrementInstalled(ctx context.Context, lineID string) (bool, error) {
	query := `
		UPDATE po_line_items SET installed = installed + 1
		WHERE id = $1 AND installed < quantity
	`
	res, err := r.db.ExecContext(ctx, query, lineID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) UnfilledCount(ctx context.Context, poID string) (int, error) {
	query := `SELECT count(*) FROM po_line_items WHERE po_id = $1 AND installed < quantity`
	var n int
	if err := r.db.QueryRowContext(ctx, query, poID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) MarkComplete(ctx context.Context, poID string) error {
	query := `UPDATE purchase_orders SET status = 'complete' WHERE id = $1 AND status = 'open'`
	if _, err := r.db.ExecContext(ctx, query, poID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
