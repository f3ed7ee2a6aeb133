package httpapi

import (
	"net/http"

	"github.com/bmgraphics/fleetops/internal/logging"
	"github.com/bmgraphics/fleetops/internal/server/config"
	"github.com/bmgraphics/fleetops/internal/server/services"
	"github.com/gorilla/mux"
)

// API bundles the services behind the HTTP surface.
type API struct {
	users     *services.UserService
	catalog   *services.CatalogService
	pos       *services.POService
	scans     *services.ScanService
	photos    *services.PhotoService
	timeclock *services.TimeClockService
	export    *services.ExportService
	jwtSecret []byte
	logger    logging.Logger
}

func NewAPI(
	users *services.UserService,
	catalog *services.CatalogService,
	pos *services.POService,
	scans *services.ScanService,
	photos *services.PhotoService,
	timeclock *services.TimeClockService,
	export *services.ExportService,
	cfg *config.Config,
	logger logging.Logger,
) *API {
	return &API{
		users:     users,
		catalog:   catalog,
		pos:       pos,
		scans:     scans,
		photos:    photos,
		timeclock: timeclock,
		export:    export,
		jwtSecret: []byte(cfg.SecretKey),
		logger:    logger,
	}
}

// Router builds the mux router. Everything under /api/v1 except login and
// refresh requires a bearer token; catalog and purchase order mutation is
// admin only.
func (a *API) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/login", a.handleLogin).Methods("POST")
	api.HandleFunc("/auth/refresh", a.handleRefresh).Methods("POST")

	authed := api.NewRoute().Subrouter()
	authed.Use(a.authMiddleware)

	authed.HandleFunc("/catalog", a.handleListCatalog).Methods("GET")
	authed.HandleFunc("/catalog", a.adminOnly(a.handleCreatePart)).Methods("POST")
	authed.HandleFunc("/catalog/{id}", a.adminOnly(a.handleUpdatePart)).Methods("PUT")

	authed.HandleFunc("/pos", a.handleListPOs).Methods("GET")
	authed.HandleFunc("/pos", a.adminOnly(a.handleCreatePO)).Methods("POST")
	authed.HandleFunc("/pos/{id}", a.handleGetPO).Methods("GET")
	authed.HandleFunc("/pos/{id}/cancel", a.adminOnly(a.handleCancelPO)).Methods("POST")

	authed.HandleFunc("/scans/decode", a.handleDecode).Methods("POST")
	authed.HandleFunc("/scans/confirm", a.handleConfirm).Methods("POST")

	authed.HandleFunc("/vehicles", a.handleListVehicles).Methods("GET")
	authed.HandleFunc("/vehicles/{id}", a.handleGetVehicle).Methods("GET")
	authed.HandleFunc("/vehicles/{id}/photos", a.handleListPhotos).Methods("GET")
	authed.HandleFunc("/vehicles/{id}/photos", a.handleBeginPhotoUpload).Methods("POST")

	authed.HandleFunc("/time/clock-in", a.handleClockIn).Methods("POST")
	authed.HandleFunc("/time/clock-out", a.handleClockOut).Methods("POST")
	authed.HandleFunc("/time/breaks/start", a.handleStartBreak).Methods("POST")
	authed.HandleFunc("/time/breaks/end", a.handleEndBreak).Methods("POST")
	authed.HandleFunc("/time/status", a.handleClockStatus).Methods("GET")
	authed.HandleFunc("/time/history", a.handleClockHistory).Methods("GET")

	authed.HandleFunc("/reports/vehicles.xlsx", a.adminOnly(a.handleExportVehicles)).Methods("GET")

	return r
}
