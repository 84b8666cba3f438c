/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the engine.

ENDPOINTS:
  Auth:
    POST   /api/login                       Exchange credential for session token

  Workers:
    GET    /api/workers                     List the directory
    POST   /api/workers                     Create a worker
    PUT    /api/workers/{name}              Update a worker
    DELETE /api/workers/{name}              Delete a worker
    GET    /api/crews                       List distinct crew labels

  Attendance:
    GET    /api/crews/{crew}/attendance     Grid for crew+period (?month=&year=)
    PUT    /api/crews/{crew}/attendance     Reconcile an edited grid

  Advances:
    GET    /api/advances                    List advances (?month=&year= filters)
    POST   /api/advances                    Record an advance

  Payroll:
    GET    /api/period                      Resolve a period (?month=&year=)
    GET    /api/payroll                     Full report (?month=&year=)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, bad month
  - 401: Missing/invalid session token (middleware)
  - 404: Unknown worker or crew
  - 409: Duplicate worker name
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/auth"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      payroll.Store
	Directory  *payroll.Directory
	Reconciler *payroll.Reconciler
	Aggregator payroll.Aggregator
	Rules      payroll.PeriodRules
	Sessions   *auth.Sessions
}

// NewHandler creates a new handler with the given store and sessions.
func NewHandler(store payroll.Store, sessions *auth.Sessions) *Handler {
	return &Handler{
		Store:      store,
		Directory:  payroll.NewDirectory(store),
		Reconciler: payroll.NewReconciler(store),
		Aggregator: payroll.NewAggregator(),
		Rules:      payroll.DefaultPeriodRules(),
		Sessions:   sessions,
	}
}

// =============================================================================
// AUTH
// =============================================================================

// Login exchanges the operator credential for a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	token, err := h.Sessions.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid username or password", nil)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// =============================================================================
// WORKERS
// =============================================================================

// ListWorkers returns the full directory.
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.Directory.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list workers", err)
		return
	}

	dtos := make([]WorkerDTO, len(workers))
	for i, worker := range workers {
		dtos[i] = workerDTO(worker)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateWorker adds a directory entry.
func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	worker, ok := decodeWorker(w, r)
	if !ok {
		return
	}

	if err := h.Directory.Add(r.Context(), worker); err != nil {
		writeDirectoryError(w, err, "Failed to create worker")
		return
	}
	writeJSON(w, http.StatusCreated, workerDTO(worker))
}

// UpdateWorker replaces the directory entry stored under {name}.
func (h *Handler) UpdateWorker(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	worker, ok := decodeWorker(w, r)
	if !ok {
		return
	}

	if err := h.Directory.Update(r.Context(), name, worker); err != nil {
		writeDirectoryError(w, err, "Failed to update worker")
		return
	}
	writeJSON(w, http.StatusOK, workerDTO(worker))
}

// DeleteWorker removes a directory entry.
func (h *Handler) DeleteWorker(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.Directory.Remove(r.Context(), name); err != nil {
		writeDirectoryError(w, err, "Failed to delete worker")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCrews returns the distinct crew labels.
func (h *Handler) ListCrews(w http.ResponseWriter, r *http.Request) {
	crews, err := h.Directory.Crews(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list crews", err)
		return
	}
	writeJSON(w, http.StatusOK, crews)
}

// =============================================================================
// PERIODS
// =============================================================================

// GetPeriod resolves the accounting period for ?month=&year=.
func (h *Handler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	month, year, period, ok := h.periodFromQuery(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, periodDTO(month, year, period))
}

// =============================================================================
// ATTENDANCE GRID
// =============================================================================

// GetAttendanceGrid returns the editable grid for one crew and period:
// one row per crew worker, one column per period day, existing hours
// filled in.
func (h *Handler) GetAttendanceGrid(w http.ResponseWriter, r *http.Request) {
	crew := chi.URLParam(r, "crew")
	month, year, period, ok := h.periodFromQuery(w, r)
	if !ok {
		return
	}

	members, err := h.Directory.CrewMembers(r.Context(), crew)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load workers", err)
		return
	}
	if len(members) == 0 {
		writeError(w, http.StatusNotFound, "Unknown crew", nil)
		return
	}

	records, err := h.Store.LoadAttendance(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load attendance", err)
		return
	}

	hoursByCell := make(map[payroll.Cell]string)
	inCrew := make(map[string]bool, len(members))
	for _, name := range members {
		inCrew[name] = true
	}
	for _, rec := range records {
		if inCrew[rec.Worker] && period.Contains(rec.Date) {
			hoursByCell[payroll.Cell{Worker: rec.Worker, Date: rec.Date}] = rec.Hours.String()
		}
	}

	days := period.Days()
	dates := make([]string, len(days))
	for i, d := range days {
		dates[i] = d.String()
	}

	rows := make([]GridRowDTO, len(members))
	for i, name := range members {
		hours := make(map[string]string)
		for _, d := range days {
			if v, ok := hoursByCell[payroll.Cell{Worker: name, Date: d}]; ok {
				hours[d.String()] = v
			}
		}
		rows[i] = GridRowDTO{Worker: name, Hours: hours}
	}

	writeJSON(w, http.StatusOK, AttendanceGridDTO{
		Crew:   crew,
		Period: periodDTO(month, year, period),
		Dates:  dates,
		Rows:   rows,
	})
}

// SaveAttendanceGrid reconciles an edited grid back into the store. The
// grid is authoritative for the whole (crew x period) rectangle; cells
// with unparseable dates or hours are dropped, never fatal.
func (h *Handler) SaveAttendanceGrid(w http.ResponseWriter, r *http.Request) {
	crew := chi.URLParam(r, "crew")
	_, _, period, ok := h.periodFromQuery(w, r)
	if !ok {
		return
	}

	var req SaveGridRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	members, err := h.Directory.CrewMembers(r.Context(), crew)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load workers", err)
		return
	}
	if len(members) == 0 {
		writeError(w, http.StatusNotFound, "Unknown crew", nil)
		return
	}

	grid := make(payroll.Grid)
	dropped := 0
	for _, row := range req.Rows {
		for dateStr, hoursStr := range row.Hours {
			date, err := payroll.ParseDate(dateStr)
			if err != nil {
				dropped++
				continue
			}
			hours, err := decimal.NewFromString(hoursStr)
			if err != nil {
				dropped++
				continue
			}
			grid[payroll.Cell{Worker: row.Worker, Date: date}] = hours
		}
	}

	result, err := h.Reconciler.Reconcile(r.Context(), members, period, grid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save attendance", err)
		return
	}

	writeJSON(w, http.StatusOK, ReconcileResultDTO{
		Inserted: result.Inserted,
		Removed:  result.Removed,
		Dropped:  result.Dropped + dropped,
	})
}

// =============================================================================
// ADVANCES
// =============================================================================

// ListAdvances returns advances, filtered to a period when ?month=&year=
// are present.
func (h *Handler) ListAdvances(w http.ResponseWriter, r *http.Request) {
	advances, err := h.Store.LoadAdvances(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load advances", err)
		return
	}

	if r.URL.Query().Get("month") != "" || r.URL.Query().Get("year") != "" {
		_, _, period, ok := h.periodFromQuery(w, r)
		if !ok {
			return
		}
		filtered := advances[:0]
		for _, adv := range advances {
			if period.Contains(adv.Date) {
				filtered = append(filtered, adv)
			}
		}
		advances = filtered
	}

	dtos := make([]AdvanceDTO, len(advances))
	for i, adv := range advances {
		dtos[i] = AdvanceDTO{Date: adv.Date.String(), Worker: adv.Worker, Amount: adv.Amount.String()}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAdvance records an advance payment.
func (h *Handler) CreateAdvance(w http.ResponseWriter, r *http.Request) {
	var req CreateAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := payroll.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	if amount.IsNegative() || req.Worker == "" {
		writeError(w, http.StatusBadRequest, "Worker is required and amount must not be negative", nil)
		return
	}

	advance := payroll.AdvancePayment{Date: date, Worker: req.Worker, Amount: amount}
	if err := h.Store.AppendAdvance(r.Context(), advance); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record advance", err)
		return
	}
	writeJSON(w, http.StatusCreated, AdvanceDTO{Date: req.Date, Worker: req.Worker, Amount: amount.String()})
}

// =============================================================================
// PAYROLL REPORT
// =============================================================================

// GetPayrollReport computes the full report for ?month=&year=.
func (h *Handler) GetPayrollReport(w http.ResponseWriter, r *http.Request) {
	month, year, period, ok := h.periodFromQuery(w, r)
	if !ok {
		return
	}

	workers, err := h.Store.LoadWorkers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load workers", err)
		return
	}
	attendance, err := h.Store.LoadAttendance(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load attendance", err)
		return
	}
	advances, err := h.Store.LoadAdvances(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load advances", err)
		return
	}

	report := h.Aggregator.Aggregate(workers, attendance, advances, period)

	dto := PayrollReportDTO{
		Period:     periodDTO(month, year, period),
		GrandTotal: report.GrandTotal.String(),
		Audit: ReportAuditDTO{
			OrphanedAttendance: report.Audit.OrphanedAttendance,
			OrphanedAdvances:   report.Audit.OrphanedAdvances,
		},
	}
	for _, crew := range report.Crews {
		crewDTO := CrewPayrollDTO{Crew: crew.Crew, Subtotal: crew.Subtotal.String()}
		for _, line := range crew.Lines {
			crewDTO.Lines = append(crewDTO.Lines, PayrollLineDTO{
				Worker:        line.Worker,
				Function:      line.Function,
				RegularHours:  line.RegularHours.String(),
				OvertimeHours: line.OvertimeHours.String(),
				Gross:         line.Gross.String(),
				Advances:      line.Advances.String(),
				Net:           line.Net.String(),
			})
		}
		dto.Crews = append(dto.Crews, crewDTO)
	}

	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HELPERS
// =============================================================================

// periodFromQuery parses ?month=&year= and resolves the period, writing
// a 400 and returning ok=false on bad input.
func (h *Handler) periodFromQuery(w http.ResponseWriter, r *http.Request) (month, year int, period payroll.Period, ok bool) {
	var err error
	month, err = strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing month", err)
		return 0, 0, payroll.Period{}, false
	}
	year, err = strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing year", err)
		return 0, 0, payroll.Period{}, false
	}

	period, err = h.Rules.Resolve(month, year)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period selection", err)
		return 0, 0, payroll.Period{}, false
	}
	return month, year, period, true
}

func workerDTO(w payroll.Worker) WorkerDTO {
	return WorkerDTO{
		Name:         w.Name,
		Function:     w.Function,
		Crew:         w.Crew,
		RegularRate:  w.RegularRate.String(),
		OvertimeRate: w.OvertimeRate.String(),
	}
}

func decodeWorker(w http.ResponseWriter, r *http.Request) (payroll.Worker, bool) {
	var req SaveWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return payroll.Worker{}, false
	}

	regular, err := decimal.NewFromString(req.RegularRate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid regular_rate", err)
		return payroll.Worker{}, false
	}
	overtime, err := decimal.NewFromString(req.OvertimeRate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid overtime_rate", err)
		return payroll.Worker{}, false
	}

	return payroll.Worker{
		Name:         req.Name,
		Function:     req.Function,
		Crew:         req.Crew,
		RegularRate:  regular,
		OvertimeRate: overtime,
	}, true
}

func writeDirectoryError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, payroll.ErrWorkerNotFound):
		writeError(w, http.StatusNotFound, "Worker not found", err)
	case errors.Is(err, payroll.ErrDuplicateWorker):
		writeError(w, http.StatusConflict, "Worker already exists", err)
	case errors.Is(err, payroll.ErrInvalidWorker):
		writeError(w, http.StatusBadRequest, "Invalid worker", err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func periodDTO(month, year int, p payroll.Period) PeriodDTO {
	return PeriodDTO{Month: month, Year: year, Start: p.Start.String(), End: p.End.String()}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
