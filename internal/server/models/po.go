package models

import "time"

// Purchase order statuses. The open → complete transition is monotonic:
// once complete, the matcher never reconsiders the PO. There is no
// decrement path.
const (
	POStatusOpen      = "open"
	POStatusComplete  = "complete"
	POStatusCancelled = "cancelled"
)

type PurchaseOrder struct {
	ID        string
	PONumber  string
	Customer  string
	Status    string
	Notes     string
	CreatedBy string
	CreatedAt time.Time

	LineItems []POLineItem
}

// POLineItem tracks fulfillment of one part on a PO.
// Invariant: 0 <= Installed <= Quantity, enforced by the guarded atomic
// increment in the pos repository.
type POLineItem struct {
	ID         string
	POID       string
	CatalogID  string
	PartNumber string
	Quantity   int
	Installed  int
	UnitPrice  float64
}

// Remaining reports the uninstalled quantity on the line.
func (li POLineItem) Remaining() int {
	return li.Quantity - li.Installed
}
