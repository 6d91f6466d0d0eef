/*
handlers.go - HTTP API handlers for the income simulator

PURPOSE:
  Exposes the simulation session via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the session.

ENDPOINTS:
  Scenario:
    GET    /api/scenario              Full session snapshot
    POST   /api/scenario/save         Persist to the current slot
    POST   /api/scenario/load         Load a slot
    POST   /api/scenario/reset        Clear session + delete slot
    GET    /api/scenario/slots        List saved slots

  Enrollments:
    POST   /api/enrollments           Add one enrollment
    POST   /api/enrollments/bulk      Add multiple enrollments (JSON)
    POST   /api/enrollments/import    Bulk import (CSV body)

  Ledger:
    GET    /api/items                 Merged display list (report order)
    DELETE /api/items/{id}            Remove a line (cascades payroll)

  Expenses:
    POST   /api/expenses/fixed        Add onto a fixed expense
    PUT    /api/expenses/fixed        Set an existing fixed expense
    PUT    /api/expenses/transport    Replace the transport line
    PUT    /api/expenses/group        Upsert the group labor line

  Configuration:
    PUT    /api/settings              Wage settings (partial)
    PUT    /api/master                Master data (partial)
    PUT    /api/config                Full rate configuration (JSON)
    PUT    /api/target                Target year/month

  Reports:
    GET    /api/summary               Aggregate totals
    GET    /api/export.csv            Per-student statement CSV
    GET    /api/report                Plain-text monthly report

CONCURRENCY:
  The session is single-owner by design; the handler serializes all
  access behind one mutex. This is a single-operator tool, not a
  multi-tenant service.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Unknown fixed expense label or slot
  - 500: Persistence failures, internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/juku/tuition-engine/engine"
	"github.com/juku/tuition-engine/factory"
	"github.com/juku/tuition-engine/report"
	"github.com/juku/tuition-engine/scenario"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	mu      sync.Mutex
	session *scenario.Session
	store   scenario.DocumentStore

	// now is swappable for deterministic report tests.
	now func() time.Time
}

// NewHandler creates a handler around a session. store may be nil.
func NewHandler(session *scenario.Session, store scenario.DocumentStore) *Handler {
	return &Handler{
		session: session,
		store:   store,
		now:     time.Now,
	}
}

// =============================================================================
// SCENARIO ENDPOINTS
// =============================================================================

// GetScenario returns the full session snapshot.
// GET /api/scenario
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	doc := h.session.Document()
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, doc)
}

// SaveScenario persists the session to its current slot.
// POST /api/scenario/save
func (h *Handler) SaveScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	err := h.session.Save(r.Context())
	h.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

// LoadScenario replaces the session from a slot.
// POST /api/scenario/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req SlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Slot == "" {
		req.Slot = scenario.DefaultSlot
	}

	h.mu.Lock()
	err := h.session.Load(r.Context(), req.Slot)
	doc := h.session.Document()
	h.mu.Unlock()

	if errors.Is(err, scenario.ErrSlotNotFound) {
		writeError(w, http.StatusNotFound, "Slot not found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// ResetScenario clears the session and deletes its slot.
// POST /api/scenario/reset
func (h *Handler) ResetScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	err := h.session.Reset(r.Context())
	h.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"reset": true})
}

// ListSlots lists saved scenario slots, most recent first.
// GET /api/scenario/slots
func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusOK, SlotsResponse{Slots: []scenario.SlotInfo{}})
		return
	}

	slots, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list slots", err)
		return
	}
	if slots == nil {
		slots = []scenario.SlotInfo{}
	}
	writeJSON(w, http.StatusOK, SlotsResponse{Slots: slots})
}

// =============================================================================
// ENROLLMENT ENDPOINTS
// =============================================================================

// AddEnrollment prices and records one enrollment.
// POST /api/enrollments
func (h *Handler) AddEnrollment(w http.ResponseWriter, r *http.Request) {
	var req EnrollmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Grade == "" {
		writeError(w, http.StatusBadRequest, "Grade is required", nil)
		return
	}

	h.mu.Lock()
	line, err := h.session.AddEnrollment(r.Context(), req.intent())
	h.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save enrollment", err)
		return
	}
	writeJSON(w, http.StatusCreated, EnrollmentResponse{Revenues: []engine.RevenueLine{line}})
}

// AddBulkEnrollments records multiple enrollments in input order.
// POST /api/enrollments/bulk
func (h *Handler) AddBulkEnrollments(w http.ResponseWriter, r *http.Request) {
	var req BulkEnrollmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "At least one enrollment is required", nil)
		return
	}

	intents := make([]engine.EnrollmentIntent, len(req.Items))
	for i, item := range req.Items {
		intents[i] = item.intent()
	}

	h.mu.Lock()
	lines, err := h.session.AddBulkEnrollments(r.Context(), intents)
	h.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save enrollments", err)
		return
	}
	writeJSON(w, http.StatusCreated, EnrollmentResponse{Revenues: lines})
}

// ImportEnrollments parses a CSV body and records the valid rows.
// POST /api/enrollments/import
func (h *Handler) ImportEnrollments(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	result, err := report.ParseBulkCSV(r.Body, h.session.Config())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read import data", err)
		return
	}

	if len(result.Intents) > 0 {
		if _, err := h.session.AddBulkEnrollments(r.Context(), result.Intents); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save enrollments", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, ImportResponse{
		Added:   len(result.Intents),
		Skipped: result.Skipped,
	})
}

// =============================================================================
// LEDGER ENDPOINTS
// =============================================================================

// GetItems returns the merged display list in report order.
// GET /api/items
func (h *Handler) GetItems(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	items := h.session.DisplayItems()
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, ItemsResponse{Items: items})
}

// RemoveItem deletes a line by id. Removing a revenue line cascades to
// its linked payroll line. Unknown ids report removed=false.
// DELETE /api/items/{id}
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid line id", err)
		return
	}

	h.mu.Lock()
	removed, err := h.session.Remove(r.Context(), engine.LineID(id))
	h.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to remove line", err)
		return
	}
	writeJSON(w, http.StatusOK, RemoveResponse{Removed: removed})
}

// =============================================================================
// EXPENSE ENDPOINTS
// =============================================================================

// AddFixedExpense adds amount onto the fixed line with this label,
// creating it when absent.
// POST /api/expenses/fixed
func (h *Handler) AddFixedExpense(w http.ResponseWriter, r *http.Request) {
	var req FixedExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Label == "" {
		writeError(w, http.StatusBadRequest, "Label is required", nil)
		return
	}

	h.mu.Lock()
	line, err := h.session.AddFixedExpense(r.Context(), req.Label, req.Amount)
	h.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save expense", err)
		return
	}
	writeJSON(w, http.StatusOK, line)
}

// SetFixedExpense replaces the amount of an existing fixed line.
// PUT /api/expenses/fixed
func (h *Handler) SetFixedExpense(w http.ResponseWriter, r *http.Request) {
	var req FixedExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.mu.Lock()
	err := h.session.SetFixedExpense(r.Context(), req.Label, req.Amount)
	h.mu.Unlock()

	if engine.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Fixed expense not found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save expense", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// SetTransport replaces the transport line for a teacher headcount.
// PUT /api/expenses/transport
func (h *Handler) SetTransport(w http.ResponseWriter, r *http.Request) {
	var req TransportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.TeacherCount < 0 {
		writeError(w, http.StatusBadRequest, "Teacher count must not be negative", nil)
		return
	}

	h.mu.Lock()
	line, err := h.session.SetTransportExpense(r.Context(), req.TeacherCount)
	h.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save expense", err)
		return
	}
	writeJSON(w, http.StatusOK, line)
}

// SetGroupPayroll upserts the flat group labor line. Zero open days
// removes it.
// PUT /api/expenses/group
func (h *Handler) SetGroupPayroll(w http.ResponseWriter, r *http.Request) {
	var req GroupPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.WeeklyOpenDays < 0 {
		writeError(w, http.StatusBadRequest, "Open days must not be negative", nil)
		return
	}

	h.mu.Lock()
	line, err := h.session.UpsertGroupPayroll(r.Context(), req.WeeklyOpenDays)
	h.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save expense", err)
		return
	}
	if line == nil {
		writeJSON(w, http.StatusOK, map[string]bool{"removed": true})
		return
	}
	writeJSON(w, http.StatusOK, line)
}

// =============================================================================
// CONFIGURATION ENDPOINTS
// =============================================================================

// UpdateWageSettings merges a partial wage edit and recalculates.
// PUT /api/settings
func (h *Handler) UpdateWageSettings(w http.ResponseWriter, r *http.Request) {
	var req scenario.WageSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.mu.Lock()
	err := h.session.UpdateWageSettings(r.Context(), req)
	doc := h.session.Document()
	h.mu.Unlock()

	h.writeConfigResult(w, doc, err)
}

// UpdateMasterData merges a partial price-table edit and recalculates.
// PUT /api/master
func (h *Handler) UpdateMasterData(w http.ResponseWriter, r *http.Request) {
	var req scenario.MasterData
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.mu.Lock()
	err := h.session.UpdateMasterData(r.Context(), req)
	doc := h.session.Document()
	h.mu.Unlock()

	h.writeConfigResult(w, doc, err)
}

// SetConfig replaces the whole rate configuration from JSON.
// PUT /api/config
func (h *Handler) SetConfig(w http.ResponseWriter, r *http.Request) {
	var doc factory.ConfigJSON
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cfg, err := factory.BuildConfig(doc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rate configuration", err)
		return
	}

	h.mu.Lock()
	err = h.session.SetConfig(r.Context(), cfg)
	snapshot := h.session.Document()
	h.mu.Unlock()

	h.writeConfigResult(w, snapshot, err)
}

// SetTarget updates the snapshot year/month label.
// PUT /api/target
func (h *Handler) SetTarget(w http.ResponseWriter, r *http.Request) {
	var req TargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Month < 1 || req.Month > 12 {
		writeError(w, http.StatusBadRequest, "Month must be between 1 and 12", nil)
		return
	}

	h.mu.Lock()
	err := h.session.SetTarget(r.Context(), req.Year, req.Month)
	h.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save target", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// writeConfigResult maps a configuration write outcome to a response.
// Validation failures are client errors; the previous configuration is
// still in effect.
func (h *Handler) writeConfigResult(w http.ResponseWriter, doc scenario.Document, err error) {
	if engine.IsClientError(err) {
		writeError(w, http.StatusBadRequest, "Invalid rate configuration", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save configuration", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// =============================================================================
// REPORT ENDPOINTS
// =============================================================================

// GetSummary returns the aggregate totals.
// GET /api/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	year, month := h.session.Target()
	summary := h.session.Summary()
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, SummaryResponse{
		TargetYear:  year,
		TargetMonth: month,
		Summary:     summary,
	})
}

// ExportCSV streams the per-student statement CSV.
// GET /api/export.csv
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	ledger := h.session.Ledger()
	cfg := h.session.Config()
	year, month := h.session.Target()
	h.mu.Unlock()

	rows := report.ExportRows(ledger, cfg, year, month, h.now())

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		`attachment; filename*=UTF-8''`+url.PathEscape(report.ExportFilename(year, month)))
	if err := report.WriteCSV(w, rows); err != nil {
		// Headers already sent; nothing sensible left to do.
		return
	}
}

// GetReport renders the plain-text monthly report.
// GET /api/report
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	ledger := h.session.Ledger()
	cfg := h.session.Config()
	year, month := h.session.Target()
	h.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	report.RenderText(w, ledger, cfg, year, month, h.now())
}

// =============================================================================
// HELPERS
// =============================================================================

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
