package repomanager

import (
	"context"
	"database/sql"

	"github.com/bmgraphics/fleetops/internal/dbx"
	"github.com/bmgraphics/fleetops/internal/server/repositories/catalog"
	"github.com/bmgraphics/fleetops/internal/server/repositories/photos"
	"github.com/bmgraphics/fleetops/internal/server/repositories/pos"
	"github.com/bmgraphics/fleetops/internal/server/repositories/profiles"
	"github.com/bmgraphics/fleetops/internal/server/repositories/refreshtokens"
	"github.com/bmgraphics/fleetops/internal/server/repositories/timeentries"
	"github.com/bmgraphics/fleetops/internal/server/repositories/vehicles"
)

// RepositoryManager vends repositories bound to a DBTX. Services bind to the
// shared *sql.DB for single statements and re-vend against a transaction
// handle when several statements must commit together.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Profiles(db dbx.DBTX) profiles.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Catalog(db dbx.DBTX) catalog.Repository
	POs(db dbx.DBTX) pos.Repository
	Vehicles(db dbx.DBTX) vehicles.Repository
	Photos(db dbx.DBTX) photos.Repository
	TimeEntries(db dbx.DBTX) timeentries.Repository
}
