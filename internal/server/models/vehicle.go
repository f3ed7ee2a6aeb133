package models

import (
	"database/sql"
	"time"
)

// ScannedVehicle is one physical vehicle processed at a point in time. The
// same VIN may appear on multiple rows across jobs; there is deliberately no
// uniqueness constraint. Rows are immutable after creation except for
// ExportedAt, which reporting sets once.
type ScannedVehicle struct {
	ID           string
	VIN          string
	VehicleYear  string
	VehicleMake  string
	VehicleModel string
	VehicleTrim  string
	BodyClass    string
	DriveType    string
	FuelType     string
	Doors        string
	GVWR         string

	CatalogID   sql.NullString
	PartNumber  sql.NullString
	Customer    sql.NullString
	EndCustomer sql.NullString
	POLineID    sql.NullString

	ScannedBy  string
	ScannedAt  time.Time
	ExportedAt sql.NullTime
}
