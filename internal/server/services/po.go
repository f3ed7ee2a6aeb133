package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bmgraphics/fleetops/internal/common"
	"github.com/bmgraphics/fleetops/internal/dbx"
	"github.com/bmgraphics/fleetops/internal/server/models"
	"github.com/bmgraphics/fleetops/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// POService maintains purchase orders. Fulfillment itself is driven by the
// scan confirmation path in ScanService.
type POService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPOService(db *sql.DB, m repomanager.RepositoryManager) *POService {
	return &POService{db: db, repomanager: m}
}

// Create stores the order and its lines atomically. Orders start open.
func (s *POService) Create(ctx context.Context, po *models.PurchaseOrder) (*models.PurchaseOrder, error) {
	if po.PONumber == "" || po.Customer == "" {
		return nil, fmt.Errorf("%w: po number and customer are required", common.ErrorValidation)
	}
	if len(po.LineItems) == 0 {
		return nil, fmt.Errorf("%w: at least one line item is required", common.ErrorValidation)
	}
	for i := range po.LineItems {
		li := &po.LineItems[i]
		if li.PartNumber == "" || li.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line items need a part number and a positive quantity", common.ErrorValidation)
		}
		li.ID = uuid.NewString()
		li.Installed = 0
	}
	po.ID = uuid.NewString()
	po.Status = models.POStatusOpen

	var created *models.PurchaseOrder
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var txErr error
		created, txErr = s.repomanager.POs(tx).Create(ctx, po)
		return txErr
	})
	if err != nil {
		return nil, fmt.Errorf("error creating purchase order: %v", err)
	}
	return created, nil
}

func (s *POService) GetByID(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	return s.repomanager.POs(s.db).GetByID(ctx, id)
}

func (s *POService) List(ctx context.Context, status string) ([]*models.PurchaseOrder, error) {
	switch status {
	case "", models.POStatusOpen, models.POStatusComplete, models.POStatusCancelled:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrorValidation, status)
	}
	return s.repomanager.POs(s.db).List(ctx, status)
}

// Cancel marks the order cancelled. Cancelled orders never receive matches;
// installed counts on their lines are left as history.
func (s *POService) Cancel(ctx context.Context, id string) error {
	return s.repomanager.POs(s.db).UpdateStatus(ctx, id, models.POStatusCancelled)
}
