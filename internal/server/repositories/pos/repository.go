// Package pos stores purchase orders and their line items, and exposes the
// guarded increment the fulfillment matcher relies on.
package pos

import (
	"context"

	"github.com/bmgraphics/fleetops/internal/server/models"
)

type Repository interface {
	// Create inserts the order together with its line items. Bind the
	// repository to a transaction for atomicity.
	Create(ctx context.Context, po *models.PurchaseOrder) (*models.PurchaseOrder, error)
	GetByID(ctx context.Context, id string) (*models.PurchaseOrder, error)
	List(ctx context.Context, status string) ([]*models.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, id string, status string) error

	// OpenLinesForPart returns unfilled line items for the part number
	// across open orders, oldest order first. Each line carries the
	// order's PO number for operator-facing messages.
	OpenLinesForPart(ctx context.Context, partNumber string) ([]*OpenLine, error)

	// IncrementInstalled bumps installed on the line by one, but only if
	// installed is still below quantity. Returns false when the line was
	// already full, without error.
	IncrementInstalled(ctx context.Context, lineID string) (bool, error)

	// UnfilledCount reports how many line items on the order still have
	// installed < quantity.
	UnfilledCount(ctx context.Context, poID string) (int, error)

	// MarkComplete flips an open order to complete. Idempotent: a second
	// call, or a call racing another, affects nothing.
	MarkComplete(ctx context.Context, poID string) error
}

// OpenLine is a matcher candidate: one unfilled line item plus the number of
// the order it belongs to.
type OpenLine struct {
	models.POLineItem
	PONumber string
}
