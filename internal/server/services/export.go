package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bmgraphics/fleetops/internal/logging"
	"github.com/bmgraphics/fleetops/internal/server/repositories/repomanager"
	"github.com/xuri/excelize/v2"
)

// ExportService produces the production-ready XLSX report of scanned
// vehicles that have not been exported yet, and stamps exported_at on the
// rows it reported so the next run picks up where this one ended.
type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewExportService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ExportService {
	return &ExportService{db: db, repomanager: m, logger: logger, now: time.Now}
}

// ExportVehiclesXLSX returns an XLSX workbook of unexported vehicles as
// bytes, plus the number of rows it contains. With markExported set, the
// reported rows are stamped and will not appear again.
func (s *ExportService) ExportVehiclesXLSX(ctx context.Context, markExported bool) ([]byte, int, error) {
	start := time.Now()

	repo := s.repomanager.Vehicles(s.db)
	recs, err := repo.ListUnexported(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("query vehicles: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Vehicles"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, 0, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Scanned",
		"VIN",
		"Year",
		"Make",
		"Model",
		"Part Number",
		"Customer",
		"End Customer",
		"PO Line",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.ScannedAt.Format("2006-01-02 15:04"))
		write(2, r.VIN)
		write(3, r.VehicleYear)
		write(4, r.VehicleMake)
		write(5, r.VehicleModel)
		write(6, nullString(r.PartNumber))
		write(7, nullString(r.Customer))
		write(8, nullString(r.EndCustomer))
		write(9, nullString(r.POLineID))

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 18) // timestamp
	_ = f.SetColWidth(sheet, "B", "B", 20) // vin
	_ = f.SetColWidth(sheet, "C", "E", 14) // year/make/model
	_ = f.SetColWidth(sheet, "F", "H", 22) // part/customers
	_ = f.SetColWidth(sheet, "I", "I", 38) // po line

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("xlsx write: %w", err)
	}

	if markExported && len(recs) > 0 {
		ids := make([]string, 0, len(recs))
		for _, r := range recs {
			ids = append(ids, r.ID)
		}
		if err := repo.MarkExported(ctx, ids, s.now()); err != nil {
			return nil, 0, fmt.Errorf("mark exported: %w", err)
		}
	}

	s.logger.Info(ctx, "export.xlsx.ok",
		"rows", len(recs),
		"marked", markExported,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), len(recs), nil
}

func nullString(v sql.NullString) string {
	if v.Valid {
		return v.String
	}
	return ""
}
