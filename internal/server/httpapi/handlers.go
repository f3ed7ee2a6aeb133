package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/bmgraphics/fleetops/internal/common"
	"github.com/bmgraphics/fleetops/internal/server/models"
	"github.com/bmgraphics/fleetops/internal/vin"
	"github.com/gorilla/mux"
)

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error(context.Background(), "error encoding response", "error", err)
	}
}

// writeError maps sentinel errors onto HTTP statuses. Unknown errors are
// logged and reported as a bare 500 so internals never leak to clients.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, common.ErrorNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrRefreshTokenExpired),
		errors.Is(err, common.ErrInvalidToken):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, common.ErrorForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, common.ErrAlreadyClockedIn),
		errors.Is(err, common.ErrNotClockedIn),
		errors.Is(err, common.ErrBreakOpen),
		errors.Is(err, common.ErrNoOpenBreak):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		a.logger.Error(r.Context(), "internal error", "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.ErrorValidation
	}
	return nil
}

// --- auth ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	pair, err := a.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, tokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	pair, err := a.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrRefreshTokenExpired) {
			a.writeError(w, r, err)
			return
		}
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	a.writeJSON(w, http.StatusOK, tokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// --- catalog ---

type partPayload struct {
	ID             string  `json:"id,omitempty"`
	PartNumber     string  `json:"part_number"`
	Customer       string  `json:"customer"`
	EndCustomer    string  `json:"end_customer"`
	VehicleType    string  `json:"vehicle_type"`
	GraphicPackage string  `json:"graphic_package"`
	Price          float64 `json:"price"`
	ProofPages     int     `json:"proof_pages"`
	Active         bool    `json:"active"`
}

func partFromPayload(p partPayload) *models.CatalogPart {
	return &models.CatalogPart{
		ID:             p.ID,
		PartNumber:     p.PartNumber,
		Customer:       p.Customer,
		EndCustomer:    p.EndCustomer,
		VehicleType:    p.VehicleType,
		GraphicPackage: p.GraphicPackage,
		Price:          p.Price,
		ProofPages:     p.ProofPages,
		Active:         p.Active,
	}
}

func partToPayload(p *models.CatalogPart) partPayload {
	return partPayload{
		ID:             p.ID,
		PartNumber:     p.PartNumber,
		Customer:       p.Customer,
		EndCustomer:    p.EndCustomer,
		VehicleType:    p.VehicleType,
		GraphicPackage: p.GraphicPackage,
		Price:          p.Price,
		ProofPages:     p.ProofPages,
		Active:         p.Active,
	}
}

func (a *API) handleListCatalog(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	parts, err := a.catalog.List(r.Context(), activeOnly)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	out := make([]partPayload, 0, len(parts))
	for _, p := range parts {
		out = append(out, partToPayload(p))
	}
	a.writeJSON(w, http.StatusOK, out)
}

func (a *API) handleCreatePart(w http.ResponseWriter, r *http.Request) {
	var req partPayload
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	part, err := a.catalog.Create(r.Context(), partFromPayload(req))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, partToPayload(part))
}

func (a *API) handleUpdatePart(w http.ResponseWriter, r *http.Request) {
	var req partPayload
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.ID = mux.Vars(r)["id"]

	if err := a.catalog.Update(r.Context(), partFromPayload(req)); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- purchase orders ---

type poLinePayload struct {
	ID         string  `json:"id,omitempty"`
	CatalogID  string  `json:"catalog_id,omitempty"`
	PartNumber string  `json:"part_number"`
	Quantity   int     `json:"quantity"`
	Installed  int     `json:"installed"`
	UnitPrice  float64 `json:"unit_price"`
}

type poPayload struct {
	ID        string          `json:"id,omitempty"`
	PONumber  string          `json:"po_number"`
	Customer  string          `json:"customer"`
	Status    string          `json:"status,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	LineItems []poLinePayload `json:"line_items"`
}

func poToPayload(po *models.PurchaseOrder) poPayload {
	out := poPayload{
		ID:       po.ID,
		PONumber: po.PONumber,
		Customer: po.Customer,
		Status:   po.Status,
		Notes:    po.Notes,
	}
	for _, li := range po.LineItems {
		out.LineItems = append(out.LineItems, poLinePayload{
			ID:         li.ID,
			CatalogID:  li.CatalogID,
			PartNumber: li.PartNumber,
			Quantity:   li.Quantity,
			Installed:  li.Installed,
			UnitPrice:  li.UnitPrice,
		})
	}
	return out
}

func (a *API) handleListPOs(w http.ResponseWriter, r *http.Request) {
	orders, err := a.pos.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	out := make([]poPayload, 0, len(orders))
	for _, po := range orders {
		out = append(out, poToPayload(po))
	}
	a.writeJSON(w, http.StatusOK, out)
}

func (a *API) handleCreatePO(w http.ResponseWriter, r *http.Request) {
	var req poPayload
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	po := &models.PurchaseOrder{
		PONumber:  req.PONumber,
		Customer:  req.Customer,
		Notes:     req.Notes,
		CreatedBy: UserID(r.Context()),
	}
	for _, li := range req.LineItems {
		po.LineItems = append(po.LineItems, models.POLineItem{
			CatalogID:  li.CatalogID,
			PartNumber: li.PartNumber,
			Quantity:   li.Quantity,
			UnitPrice:  li.UnitPrice,
		})
	}

	created, err := a.pos.Create(r.Context(), po)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, poToPayload(created))
}

func (a *API) handleGetPO(w http.ResponseWriter, r *http.Request) {
	po, err := a.pos.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, poToPayload(po))
}

func (a *API) handleCancelPO(w http.ResponseWriter, r *http.Request) {
	if err := a.pos.Cancel(r.Context(), mux.Vars(r)["id"]); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- scans ---

type decodeRequest struct {
	VIN string `json:"vin"`
}

type decodeResponse struct {
	VIN        string          `json:"vin"`
	Attributes *vin.Attributes `json:"attributes"`
}

func (a *API) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	v, attrs, err := a.scans.Decode(r.Context(), req.VIN)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, decodeResponse{VIN: v, Attributes: attrs})
}

type confirmRequest struct {
	VIN          string          `json:"vin"`
	Attributes   *vin.Attributes `json:"attributes,omitempty"`
	ActivePartID string          `json:"active_part_id,omitempty"`
}

type confirmResponse struct {
	Vehicle vehiclePayload `json:"vehicle"`
	Match   matchPayload   `json:"match"`
}

type matchPayload struct {
	POLineID    string `json:"po_line_id,omitempty"`
	PONumber    string `json:"po_number,omitempty"`
	POCompleted bool   `json:"po_completed"`
	Message     string `json:"message"`
}

func (a *API) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	res, err := a.scans.Confirm(r.Context(), UserID(r.Context()), req.VIN, req.Attributes, req.ActivePartID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, confirmResponse{
		Vehicle: vehicleToPayload(res.Vehicle),
		Match: matchPayload{
			POLineID:    res.Match.POLineID,
			PONumber:    res.Match.PONumber,
			POCompleted: res.Match.POCompleted,
			Message:     res.Match.Message,
		},
	})
}

// --- vehicles ---

type vehiclePayload struct {
	ID          string `json:"id"`
	VIN         string `json:"vin"`
	Year        string `json:"year,omitempty"`
	Make        string `json:"make,omitempty"`
	Model       string `json:"model,omitempty"`
	Trim        string `json:"trim,omitempty"`
	PartNumber  string `json:"part_number,omitempty"`
	Customer    string `json:"customer,omitempty"`
	EndCustomer string `json:"end_customer,omitempty"`
	POLineID    string `json:"po_line_id,omitempty"`
	ScannedBy   string `json:"scanned_by"`
	ScannedAt   string `json:"scanned_at"`
	ExportedAt  string `json:"exported_at,omitempty"`
}

func nullStr(v sql.NullString) string {
	if v.Valid {
		return v.String
	}
	return ""
}

func vehicleToPayload(v *models.ScannedVehicle) vehiclePayload {
	out := vehiclePayload{
		ID:          v.ID,
		VIN:         v.VIN,
		Year:        v.VehicleYear,
		Make:        v.VehicleMake,
		Model:       v.VehicleModel,
		Trim:        v.VehicleTrim,
		PartNumber:  nullStr(v.PartNumber),
		Customer:    nullStr(v.Customer),
		EndCustomer: nullStr(v.EndCustomer),
		POLineID:    nullStr(v.POLineID),
		ScannedBy:   v.ScannedBy,
		ScannedAt:   v.ScannedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if v.ExportedAt.Valid {
		out.ExportedAt = v.ExportedAt.Time.Format("2006-01-02T15:04:05Z07:00")
	}
	return out
}

func (a *API) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	vehicles, err := a.scans.Vehicles(r.Context(), limit)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	out := make([]vehiclePayload, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, vehicleToPayload(v))
	}
	a.writeJSON(w, http.StatusOK, out)
}

func (a *API) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := a.scans.Vehicle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, vehicleToPayload(v))
}

// --- photos ---

type beginPhotoRequest struct {
	PhotoType string `json:"photo_type"`
}

type beginPhotoResponse struct {
	PhotoID   string `json:"photo_id"`
	UploadURL string `json:"upload_url"`
}

func (a *API) handleBeginPhotoUpload(w http.ResponseWriter, r *http.Request) {
	var req beginPhotoRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.PhotoType == "" {
		req.PhotoType = models.PhotoCompletion
	}

	photo, url, err := a.photos.BeginUpload(r.Context(), mux.Vars(r)["id"], req.PhotoType, UserID(r.Context()))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, beginPhotoResponse{PhotoID: photo.ID, UploadURL: url})
}

type photoPayload struct {
	ID        string `json:"id"`
	PhotoType string `json:"photo_type"`
	TakenBy   string `json:"taken_by"`
	TakenAt   string `json:"taken_at"`
	URL       string `json:"url"`
}

func (a *API) handleListPhotos(w http.ResponseWriter, r *http.Request) {
	photos, urls, err := a.photos.ListByVehicle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	out := make([]photoPayload, 0, len(photos))
	for i, p := range photos {
		out = append(out, photoPayload{
			ID:        p.ID,
			PhotoType: p.PhotoType,
			TakenBy:   p.TakenBy,
			TakenAt:   p.TakenAt.Format("2006-01-02T15:04:05Z07:00"),
			URL:       urls[i],
		})
	}
	a.writeJSON(w, http.StatusOK, out)
}

// --- time clock ---

type timeEntryPayload struct {
	ID       string             `json:"id"`
	ClockIn  string             `json:"clock_in"`
	ClockOut string             `json:"clock_out,omitempty"`
	Status   string             `json:"status"`
	TotalMS  int64              `json:"total_ms,omitempty"`
	Breaks   []timeBreakPayload `json:"breaks,omitempty"`
}

type timeBreakPayload struct {
	ID         string `json:"id"`
	BreakStart string `json:"break_start"`
	BreakEnd   string `json:"break_end,omitempty"`
	BreakType  string `json:"break_type"`
}

func entryToPayload(e *models.TimeEntry) timeEntryPayload {
	out := timeEntryPayload{
		ID:      e.ID,
		ClockIn: e.ClockIn.Format("2006-01-02T15:04:05Z07:00"),
		Status:  e.Status,
	}
	if e.ClockOut.Valid {
		out.ClockOut = e.ClockOut.Time.Format("2006-01-02T15:04:05Z07:00")
	}
	if e.TotalMS.Valid {
		out.TotalMS = e.TotalMS.Int64
	}
	for _, b := range e.Breaks {
		bp := timeBreakPayload{
			ID:         b.ID,
			BreakStart: b.BreakStart.Format("2006-01-02T15:04:05Z07:00"),
			BreakType:  b.BreakType,
		}
		if b.BreakEnd.Valid {
			bp.BreakEnd = b.BreakEnd.Time.Format("2006-01-02T15:04:05Z07:00")
		}
		out.Breaks = append(out.Breaks, bp)
	}
	return out
}

func (a *API) handleClockIn(w http.ResponseWriter, r *http.Request) {
	entry, err := a.timeclock.ClockIn(r.Context(), UserID(r.Context()))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, entryToPayload(entry))
}

func (a *API) handleClockOut(w http.ResponseWriter, r *http.Request) {
	entry, err := a.timeclock.ClockOut(r.Context(), UserID(r.Context()))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, entryToPayload(entry))
}

type startBreakRequest struct {
	BreakType string `json:"break_type"`
}

func (a *API) handleStartBreak(w http.ResponseWriter, r *http.Request) {
	var req startBreakRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.BreakType == "" {
		req.BreakType = models.BreakLunch
	}

	b, err := a.timeclock.StartBreak(r.Context(), UserID(r.Context()), req.BreakType)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, timeBreakPayload{
		ID:         b.ID,
		BreakStart: b.BreakStart.Format("2006-01-02T15:04:05Z07:00"),
		BreakType:  b.BreakType,
	})
}

func (a *API) handleEndBreak(w http.ResponseWriter, r *http.Request) {
	if err := a.timeclock.EndBreak(r.Context(), UserID(r.Context())); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleClockStatus(w http.ResponseWriter, r *http.Request) {
	entry, err := a.timeclock.Status(r.Context(), UserID(r.Context()))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, entryToPayload(entry))
}

func (a *API) handleClockHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := a.timeclock.History(r.Context(), UserID(r.Context()), limit)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	out := make([]timeEntryPayload, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryToPayload(e))
	}
	a.writeJSON(w, http.StatusOK, out)
}

// --- reports ---

func (a *API) handleExportVehicles(w http.ResponseWriter, r *http.Request) {
	mark := r.URL.Query().Get("mark") != "false"

	data, rows, err := a.export.ExportVehiclesXLSX(r.Context(), mark)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="vehicles.xlsx"`)
	w.Header().Set("X-Row-Count", strconv.Itoa(rows))
	_, _ = w.Write(data)
}
