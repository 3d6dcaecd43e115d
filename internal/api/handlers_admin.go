/**
 * @description
 * Admin control surface: virtual clock mutation and manual job control.
 * Consumed by operators and test harnesses, never by customers. In production
 * the service runs the pass-through system clock and the mutation endpoints
 * answer 409.
 *
 * Manual job triggers bypass the dispatcher's once-per-day gate on purpose;
 * the ledger-level boundary idempotency check is what prevents double-posting
 * on that path.
 */

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/SOOD-11/FD-Module-sub000/internal/app"
	"github.com/SOOD-11/FD-Module-sub000/internal/clock"
)

// AdminHandlers exposes clock and job control. adjustable is nil when the
// service runs in system-clock mode.
type AdminHandlers struct {
	clk        clock.Clock
	adjustable *clock.AdjustableClock
	dispatcher *app.Dispatcher
	logger     *slog.Logger
}

// NewAdminHandlers creates the admin handler set.
func NewAdminHandlers(clk clock.Clock, adjustable *clock.AdjustableClock, dispatcher *app.Dispatcher, logger *slog.Logger) *AdminHandlers {
	return &AdminHandlers{
		clk:        clk,
		adjustable: adjustable,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

type clockResponse struct {
	Now           time.Time `json:"now"`
	Today         string    `json:"today"`
	OffsetSeconds float64   `json:"offset_seconds"`
	Adjustable    bool      `json:"adjustable"`
}

func (h *AdminHandlers) clockState() clockResponse {
	resp := clockResponse{
		Now:        h.clk.Now(),
		Today:      h.clk.Today().Format(time.DateOnly),
		Adjustable: h.adjustable != nil,
	}
	if h.adjustable != nil {
		resp.OffsetSeconds = h.adjustable.Offset().Seconds()
	}
	return resp
}

// GetClockHandler returns the current logical time and its date projection.
func (h *AdminHandlers) GetClockHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.clockState())
}

func (h *AdminHandlers) requireAdjustable(w http.ResponseWriter) bool {
	if h.adjustable == nil {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "clock is not adjustable in this deployment"})
		return false
	}
	return true
}

// SetClockHandler jumps logical time to an absolute RFC3339 timestamp.
func (h *AdminHandlers) SetClockHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdjustable(w) {
		return
	}

	var req struct {
		Timestamp string `json:"timestamp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	target, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		// Offset is left untouched on bad input.
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "timestamp must be RFC3339, e.g. 2030-06-15T09:30:00Z"})
		return
	}

	h.adjustable.SetAbsolute(target)
	h.logger.Info("logical clock set to absolute time", "target", target)
	writeJSON(w, http.StatusOK, h.clockState())
}

// SetDateHandler jumps logical time to a calendar date anchored at noon.
func (h *AdminHandlers) SetDateHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdjustable(w) {
		return
	}

	var req struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	target, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "date must be YYYY-MM-DD"})
		return
	}

	h.adjustable.SetDate(target)
	h.logger.Info("logical clock set to date", "date", req.Date)
	writeJSON(w, http.StatusOK, h.clockState())
}

// AdvanceClockHandler shifts logical time by a relative number of days and
// hours. Negative values move the clock backwards.
func (h *AdminHandlers) AdvanceClockHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdjustable(w) {
		return
	}

	var req struct {
		Days  int `json:"days"`
		Hours int `json:"hours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	delta := time.Duration(req.Days)*24*time.Hour + time.Duration(req.Hours)*time.Hour
	h.adjustable.Advance(delta)
	h.logger.Info("logical clock advanced", "days", req.Days, "hours", req.Hours)
	writeJSON(w, http.StatusOK, h.clockState())
}

// ResetClockHandler zeroes the logical offset.
func (h *AdminHandlers) ResetClockHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdjustable(w) {
		return
	}

	h.adjustable.Reset()
	h.logger.Info("logical clock reset")
	writeJSON(w, http.StatusOK, h.clockState())
}

type jobStatus struct {
	Name      string `json:"name"`
	LastFired string `json:"last_fired,omitempty"`
}

// ListJobsHandler returns the registered jobs and their last-fired dates.
func (h *AdminHandlers) ListJobsHandler(w http.ResponseWriter, r *http.Request) {
	tracker := h.dispatcher.Tracker()
	var statuses []jobStatus
	for _, name := range h.dispatcher.JobNames() {
		status := jobStatus{Name: name}
		if date, ok := tracker.LastFired(name); ok {
			status.LastFired = date
		}
		statuses = append(statuses, status)
	}
	writeJSON(w, http.StatusOK, statuses)
}

// TriggerJobHandler runs a job immediately, bypassing the per-day gate.
func (h *AdminHandlers) TriggerJobHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "job")
	if err := h.dispatcher.TriggerNow(name); err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "triggered", "job": name})
}

// ResetJobHandler clears a job's last-fired date so the next eligible tick
// fires it again.
func (h *AdminHandlers) ResetJobHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "job")
	if err := h.dispatcher.ResetJob(name); err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset", "job": name})
}
