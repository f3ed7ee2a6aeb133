package models

import "time"

// CatalogPart is an installable part the admins maintain. The "active part"
// an installer selects before scanning supplies the customer/part defaults
// for the resulting scanned vehicles.
type CatalogPart struct {
	ID             string
	PartNumber     string
	Customer       string
	EndCustomer    string
	VehicleType    string
	GraphicPackage string
	Price          float64
	ProofPages     int
	Active         bool
	CreatedAt      time.Time
}
