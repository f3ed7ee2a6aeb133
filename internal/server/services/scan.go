package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bmgraphics/fleetops/internal/common"
	"github.com/bmgraphics/fleetops/internal/dbx"
	"github.com/bmgraphics/fleetops/internal/server/config"
	"github.com/bmgraphics/fleetops/internal/server/models"
	"github.com/bmgraphics/fleetops/internal/server/repositories/repomanager"
	"github.com/bmgraphics/fleetops/internal/vin"
	"github.com/google/uuid"
)

// MatchResult reports what the fulfillment matcher did with a confirmed
// vehicle. When no open order wanted the part, POLineID is empty and Message
// says so; the confirmation itself still succeeds.
type MatchResult struct {
	POLineID    string
	PONumber    string
	POCompleted bool
	Message     string
}

// ConfirmResult is the full outcome of a scan confirmation.
type ConfirmResult struct {
	Vehicle *models.ScannedVehicle
	Match   *MatchResult
}

// ScanService turns captured VINs into scanned vehicle records: it decodes
// them and, on confirmation, stores the vehicle and matches it against open
// purchase orders.
type ScanService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	decoder     *vin.Decoder
}

func NewScanService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *ScanService {
	return &ScanService{
		db:          db,
		repomanager: m,
		decoder:     vin.NewDecoder(cfg.VINLookupURL, nil, cfg.VINLookupTimeout),
	}
}

// Decode validates the VIN and returns its decoded attributes. The remote
// lookup falls back to the offline tables on any failure, so only a
// malformed VIN errors.
func (s *ScanService) Decode(ctx context.Context, rawVIN string) (string, *vin.Attributes, error) {
	v := vin.Normalize(rawVIN)
	if !vin.Valid(v) {
		return "", nil, fmt.Errorf("%w: bad vin %q", common.ErrorValidation, rawVIN)
	}
	attrs, err := s.decoder.Decode(ctx, v)
	if err != nil {
		return "", nil, err
	}
	return v, &attrs, nil
}

// Confirm stores the scanned vehicle and runs the purchase order matcher.
//
// The vehicle row is written first and survives regardless of the matcher
// outcome: an installer's work is never lost because no order wanted it.
// When an active part is set, the matcher walks unfilled lines for that part
// number across open orders, oldest order first, and claims one slot with a
// guarded increment. Filling the last open slot on the last unfilled line
// completes the order.
func (s *ScanService) Confirm(ctx context.Context, userID, rawVIN string, attrs *vin.Attributes, activePartID string) (*ConfirmResult, error) {
	v := vin.Normalize(rawVIN)
	if !vin.Valid(v) {
		return nil, fmt.Errorf("%w: bad vin %q", common.ErrorValidation, rawVIN)
	}
	if attrs == nil {
		attrs = &vin.Attributes{}
	}

	vehicle := &models.ScannedVehicle{
		ID:           uuid.NewString(),
		VIN:          v,
		VehicleYear:  attrs.Year,
		VehicleMake:  attrs.Make,
		VehicleModel: attrs.Model,
		VehicleTrim:  attrs.Trim,
		BodyClass:    attrs.BodyClass,
		DriveType:    attrs.DriveType,
		FuelType:     attrs.FuelType,
		Doors:        attrs.Doors,
		GVWR:         attrs.GVWR,
		ScannedBy:    userID,
	}

	var part *models.CatalogPart
	if activePartID != "" {
		p, err := s.repomanager.Catalog(s.db).GetByID(ctx, activePartID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, fmt.Errorf("%w: unknown part %q", common.ErrorValidation, activePartID)
			}
			return nil, err
		}
		part = p
		vehicle.CatalogID = sql.NullString{String: p.ID, Valid: true}
		vehicle.PartNumber = sql.NullString{String: p.PartNumber, Valid: true}
		vehicle.Customer = sql.NullString{String: p.Customer, Valid: true}
		vehicle.EndCustomer = sql.NullString{String: p.EndCustomer, Valid: true}
	}

	vehicle, err := s.repomanager.Vehicles(s.db).Create(ctx, vehicle)
	if err != nil {
		return nil, fmt.Errorf("error creating vehicle: %v", err)
	}

	result := &ConfirmResult{Vehicle: vehicle}

	if part == nil {
		result.Match = &MatchResult{Message: "no active part selected, vehicle recorded unlinked"}
		return result, nil
	}

	match, err := s.matchPurchaseOrder(ctx, vehicle.ID, part.PartNumber)
	if err != nil {
		return nil, err
	}
	result.Match = match
	if match.POLineID != "" {
		vehicle.POLineID = sql.NullString{String: match.POLineID, Valid: true}
	}
	return result, nil
}

// Vehicles returns recently scanned vehicles, newest first.
func (s *ScanService) Vehicles(ctx context.Context, limit int) ([]*models.ScannedVehicle, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.repomanager.Vehicles(s.db).List(ctx, limit)
}

func (s *ScanService) Vehicle(ctx context.Context, id string) (*models.ScannedVehicle, error) {
	return s.repomanager.Vehicles(s.db).GetByID(ctx, id)
}

func (s *ScanService) matchPurchaseOrder(ctx context.Context, vehicleID, partNumber string) (*MatchResult, error) {
	match := &MatchResult{}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		poRepo := s.repomanager.POs(tx)

		lines, err := poRepo.OpenLinesForPart(ctx, partNumber)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			match.Message = fmt.Sprintf("no open purchase order for part %s", partNumber)
			return nil
		}

		// Candidates come back oldest order first. A candidate can fill up
		// between the select and the increment, so walk until one takes.
		for _, line := range lines {
			ok, err := poRepo.IncrementInstalled(ctx, line.ID)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}

			if err := s.repomanager.Vehicles(tx).SetPOLine(ctx, vehicleID, line.ID); err != nil {
				return err
			}

			match.POLineID = line.ID
			match.PONumber = line.PONumber
			match.Message = fmt.Sprintf("counted against PO %s", line.PONumber)

			unfilled, err := poRepo.UnfilledCount(ctx, line.POID)
			if err != nil {
				return err
			}
			if unfilled == 0 {
				if err := poRepo.MarkComplete(ctx, line.POID); err != nil {
					return err
				}
				match.POCompleted = true
				match.Message = fmt.Sprintf("counted against PO %s, order now complete", line.PONumber)
			}
			return nil
		}

		match.Message = fmt.Sprintf("no open purchase order for part %s", partNumber)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error matching purchase order: %v", err)
	}
	return match, nil
}
