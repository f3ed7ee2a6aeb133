package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/bmgraphics/fleetops/internal/logging"
	"github.com/bmgraphics/fleetops/internal/server/config"
	"github.com/bmgraphics/fleetops/internal/server/repositories/repomanager"
	"github.com/bmgraphics/fleetops/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// runExport writes the XLSX report of unexported vehicles to a file. By
// default the reported rows are stamped so the next export starts after
// them; -keep leaves them unexported for a dry run.
func (a *App) runExport(ctx context.Context, args []string) error {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	dsn := fs.String("d", cfg.DatabaseDSN, "database DSN")
	out := fs.String("o", "vehicles.xlsx", "output file")
	keep := fs.Bool("keep", false, "do not mark rows as exported")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	m := repomanager.NewPostgresRepositoryManager()
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	svc := services.NewExportService(db, m, logger)
	data, rows, err := svc.ExportVehiclesXLSX(ctx, !*keep)
	if err != nil {
		return err
	}

	if err := os.WriteFile(*out, data, 0o600); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "wrote %d vehicles to %s\n", rows, *out)
	return nil
}
