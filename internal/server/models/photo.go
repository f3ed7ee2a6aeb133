package models

import "time"

// Photo types accepted for vehicle uploads.
const (
	PhotoCompletion = "completion"
	PhotoBefore     = "before"
	PhotoDuring     = "during"
	PhotoDamage     = "damage"
)

// VehiclePhoto records one uploaded photo. The bytes live in object storage
// under StoragePath; the row is the index.
type VehiclePhoto struct {
	ID          string
	VehicleID   string
	StoragePath string
	PhotoType   string
	TakenBy     string
	TakenAt     time.Time
}
