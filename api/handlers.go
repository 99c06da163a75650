/*
handlers.go - HTTP API handlers for the yield projection engine

PURPOSE:
  Exposes the projection engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the simulator and provider chain.

ENDPOINTS:
  Simulations:
    POST   /api/simulations              Run one projection

  Rates:
    GET    /api/rates/{year}             Daily rate used for a start year
    GET    /api/annualize?daily_rate=    (1 + r)^252 - 1

  Holidays:
    GET    /api/holidays/{year}          Effective holidays (provider + custom)
    GET    /api/custom-holidays          Host-managed holidays
    POST   /api/custom-holidays          Add a custom holiday
    DELETE /api/custom-holidays/{id}     Remove a custom holiday

  Scenarios:
    GET    /api/scenarios                List canned simulations
    POST   /api/scenarios/{id}/run       Run one of them

  Admin:
    GET    /api/admin/prefetch           Cache warmer status
    POST   /api/admin/prefetch           Warm the caches now
    POST   /api/admin/reset              Drop cached provider data

ARCHITECTURE:
  Handler holds the wired application (bootstrap.App): the simulator, the
  holiday chain and the SQLite store. Simulations are never stored; each
  response carries a fresh ID for client-side correlation only.

ERROR HANDLING:
  Errors are returned as JSON with an HTTP status chosen from the error kind:
  - 400: ErrInvalidInput (bad principal, date, horizon or rate)
  - 404: ErrNoRateData, unknown custom holiday or scenario
  - 422: ErrProjectionStalled
  - 502: ErrProviderUnavailable
  - 500: anything else

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Canned simulations
  - scheduler.go: Cache warmer
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/yield-engine/bootstrap"
	"github.com/warp/yield-engine/generic"
	"github.com/warp/yield-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	App *bootstrap.App

	// Prefetcher is optional; the admin endpoints report 404 without it.
	Prefetcher *Prefetcher

	// MaxBusinessDays caps the horizon of one request.
	MaxBusinessDays int

	Logger *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewHandler creates a new handler over a wired application.
func NewHandler(app *bootstrap.App) *Handler {
	logger := app.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		App:             app,
		MaxBusinessDays: app.Config.Server.MaxBusinessDays,
		Logger:          logger,
		now:             time.Now,
		newID:           uuid.NewString,
	}
}

// =============================================================================
// SIMULATIONS
// =============================================================================

// Simulate runs one projection.
// POST /api/simulations
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	h.runSimulation(w, r, req)
}

func (h *Handler) runSimulation(w http.ResponseWriter, r *http.Request, req SimulationRequest) {
	if strings.TrimSpace(req.StartDate) == "" {
		writeEngineError(w, &generic.InputError{Field: "start_date", Reason: "required (YYYY-MM-DD)"})
		return
	}
	start, err := generic.ParseDate(strings.TrimSpace(req.StartDate))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if h.MaxBusinessDays > 0 && req.BusinessDays > h.MaxBusinessDays {
		writeEngineError(w, &generic.InputError{
			Field:  "business_days",
			Reason: fmt.Sprintf("must be at most %d", h.MaxBusinessDays),
		})
		return
	}

	input := generic.SimulationInput{
		Principal:          req.Principal,
		StartDate:          start,
		TargetBusinessDays: req.BusinessDays,
	}

	result, err := h.App.Simulator.Simulate(r.Context(), input)
	if err != nil {
		h.Logger.Warn("simulation.failed", "start", req.StartDate, "business_days", req.BusinessDays, "err", err)
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, NewSimulationDTO(h.newID(), result, h.now().UTC()))
}

// =============================================================================
// RATES
// =============================================================================

// GetRate returns the daily rate simulations starting in {year} use.
// GET /api/rates/{year}
func (h *Handler) GetRate(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	rate, err := h.App.Simulator.Rate(r.Context(), year)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRateDTO(year, rate))
}

// Annualize converts a daily rate into its annual equivalent.
// GET /api/annualize?daily_rate=0.0004
func (h *Handler) Annualize(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("daily_rate")
	if raw == "" {
		writeEngineError(w, &generic.InputError{Field: "daily_rate", Reason: "required"})
		return
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		writeEngineError(w, &generic.InputError{Field: "daily_rate", Reason: "not a decimal number"})
		return
	}
	if rate.IsNegative() {
		writeEngineError(w, &generic.InputError{Field: "daily_rate", Reason: "must not be negative"})
		return
	}

	writeJSON(w, http.StatusOK, toRateDTO(0, rate))
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

// GetYearHolidays returns the holidays the engine would skip in {year}.
// GET /api/holidays/{year}
func (h *Handler) GetYearHolidays(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	holidays, err := h.App.Holidays.Holidays(r.Context(), year)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"year":     year,
		"holidays": toHolidayDTOs(holidays),
	})
}

// ListCustomHolidays returns all custom holidays.
// GET /api/custom-holidays
func (h *Handler) ListCustomHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.App.Store.ListCustomHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get holidays", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"holidays": toCustomHolidayDTOs(holidays)})
}

// CreateHoliday creates a new custom holiday.
// POST /api/custom-holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Date == "" || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Date and name are required", nil)
		return
	}

	date, err := generic.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	id, err := h.App.Store.SaveHoliday(r.Context(), sqlite.CustomHoliday{
		Date:      date,
		Name:      strings.TrimSpace(req.Name),
		Recurring: req.Recurring,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create holiday", err)
		return
	}
	h.App.HolidaysChanged()

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":  "created",
		"holiday": id,
	})
}

// DeleteHoliday deletes a custom holiday.
// DELETE /api/custom-holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.App.Store.DeleteHoliday(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Holiday not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete holiday", err)
		return
	}
	h.App.HolidaysChanged()

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// ADMIN
// =============================================================================

// Health reports liveness and the active provider source.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"source": h.App.Source,
		"time":   h.now().UTC(),
	})
}

// ResetCache drops cached provider data. Custom holidays are kept.
// POST /api/admin/reset
func (h *Handler) ResetCache(w http.ResponseWriter, r *http.Request) {
	if err := h.App.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset cache", err)
		return
	}
	h.App.HolidaysChanged()

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// PrefetchStatus reports the cache warmer's last run.
// GET /api/admin/prefetch
func (h *Handler) PrefetchStatus(w http.ResponseWriter, r *http.Request) {
	if h.Prefetcher == nil {
		writeError(w, http.StatusNotFound, "Prefetcher disabled", nil)
		return
	}
	writeJSON(w, http.StatusOK, h.Prefetcher.Status())
}

// Prefetch warms the caches now.
// POST /api/admin/prefetch
func (h *Handler) Prefetch(w http.ResponseWriter, r *http.Request) {
	if h.Prefetcher == nil {
		writeError(w, http.StatusNotFound, "Prefetcher disabled", nil)
		return
	}
	h.Prefetcher.RunNow(r.Context())
	writeJSON(w, http.StatusOK, h.Prefetcher.Status())
}

// =============================================================================
// HELPERS
// =============================================================================

func yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "year")
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1900 || year > 9999 {
		writeEngineError(w, &generic.InputError{Field: "year", Reason: fmt.Sprintf("%q is not a year", raw)})
		return 0, false
	}
	return year, true
}

// statusFor maps an engine or provider error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, generic.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, generic.ErrNoRateData):
		return http.StatusNotFound
	case errors.Is(err, generic.ErrProjectionStalled):
		return http.StatusUnprocessableEntity
	case errors.Is(err, generic.ErrProviderUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeEngineError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	var message string
	switch status {
	case http.StatusBadRequest:
		message = "Invalid input"
	case http.StatusNotFound:
		message = "No rate data"
	case http.StatusUnprocessableEntity:
		message = "Projection stalled"
	case http.StatusBadGateway:
		message = "Provider unavailable"
	default:
		message = "Internal error"
	}
	writeError(w, status, message, err)
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
