package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/SOOD-11/FD-Module-sub000/internal/app"
	"github.com/SOOD-11/FD-Module-sub000/internal/clock"
)

func newAdminTestServer(t *testing.T, adjustable *clock.AdjustableClock) (*httptest.Server, *app.Dispatcher) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var clk clock.Clock = clock.NewSystemClock(time.UTC)
	if adjustable != nil {
		clk = adjustable
	}

	dispatcher := app.NewDispatcher(clk, logger)
	dispatcher.Register(app.Job{Name: app.JobInterestAccrual, Trigger: app.DailyAt(0), Run: func() {}})

	admin := NewAdminHandlers(clk, adjustable, dispatcher, logger)

	r := chi.NewRouter()
	r.Get("/admin/clock", admin.GetClockHandler)
	r.Post("/admin/clock/set", admin.SetClockHandler)
	r.Post("/admin/clock/set-date", admin.SetDateHandler)
	r.Post("/admin/clock/advance", admin.AdvanceClockHandler)
	r.Post("/admin/clock/reset", admin.ResetClockHandler)
	r.Post("/admin/jobs/{job}/trigger", admin.TriggerJobHandler)
	r.Post("/admin/jobs/{job}/reset", admin.ResetJobHandler)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, dispatcher
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSetDateHandler_AnchorsLogicalDate(t *testing.T) {
	adjustable := clock.NewAdjustableClock(time.UTC)
	server, _ := newAdminTestServer(t, adjustable)

	resp := postJSON(t, server.URL+"/admin/clock/set-date", `{"date":"2027-03-01"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var state struct {
		Today string `json:"today"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if state.Today != "2027-03-01" {
		t.Fatalf("expected today to be 2027-03-01, got %q", state.Today)
	}
}

func TestSetClockHandler_RejectsMalformedTimestamp(t *testing.T) {
	adjustable := clock.NewAdjustableClock(time.UTC)
	server, _ := newAdminTestServer(t, adjustable)

	resp := postJSON(t, server.URL+"/admin/clock/set", `{"timestamp":"next tuesday"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed timestamp, got %d", resp.StatusCode)
	}
	// Offset must be untouched on bad input.
	if adjustable.Offset() != 0 {
		t.Fatalf("expected offset unchanged, got %v", adjustable.Offset())
	}
}

func TestClockMutation_ConflictsInSystemMode(t *testing.T) {
	server, _ := newAdminTestServer(t, nil)

	resp := postJSON(t, server.URL+"/admin/clock/set", `{"timestamp":"2030-06-15T09:30:00Z"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 in system-clock mode, got %d", resp.StatusCode)
	}
}

func TestAdvanceClockHandler_SupportsNegativeSpans(t *testing.T) {
	adjustable := clock.NewAdjustableClock(time.UTC)
	server, _ := newAdminTestServer(t, adjustable)

	resp := postJSON(t, server.URL+"/admin/clock/advance", `{"days":-2,"hours":-3}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	want := -(2*24 + 3) * time.Hour
	got := adjustable.Offset()
	if got < want-time.Second || got > want+time.Second {
		t.Fatalf("expected offset near %v, got %v", want, got)
	}
}

func TestTriggerJobHandler_UnknownJob(t *testing.T) {
	server, _ := newAdminTestServer(t, clock.NewAdjustableClock(time.UTC))

	resp := postJSON(t, server.URL+"/admin/jobs/no-such-job/trigger", ``)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown job, got %d", resp.StatusCode)
	}
}

func TestResetJobHandler_ClearsDailyGate(t *testing.T) {
	adjustable := clock.NewAdjustableClock(time.UTC)
	adjustable.SetAbsolute(time.Date(2030, time.January, 5, 0, 30, 0, 0, time.UTC))
	server, dispatcher := newAdminTestServer(t, adjustable)

	dispatcher.Tick()
	if _, ok := dispatcher.Tracker().LastFired(app.JobInterestAccrual); !ok {
		t.Fatal("expected job to have fired")
	}

	resp := postJSON(t, server.URL+"/admin/jobs/"+app.JobInterestAccrual+"/reset", ``)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if _, ok := dispatcher.Tracker().LastFired(app.JobInterestAccrual); ok {
		t.Fatal("expected last-fired date cleared after reset")
	}
}
