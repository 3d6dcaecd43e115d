/**
 * @description
 * Time-driven job dispatcher. A fixed wall-clock tick (driven by the cron
 * wrapper in scheduler.go) calls Tick, which reads the virtual clock and fires
 * each registered job at most once per logical calendar day that reaches its
 * trigger window. Trigger predicates hold over a whole hour so the per-minute
 * polling granularity cannot miss a window.
 *
 * The last-fired date is marked BEFORE the job body runs: a slow or failing
 * job is not retried until the next logical day's window.
 *
 * Known limitation, intentional: jumping the clock across several days in one
 * admin call only ever evaluates "today". Trigger windows strictly between the
 * old and new date are permanently skipped; there is no backfill.
 */

package app

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SOOD-11/FD-Module-sub000/internal/clock"
)

// Registered job names.
const (
	JobInterestAccrual     = "interest-accrual"
	JobInterestPayout      = "interest-payout"
	JobMaturityProcessing  = "maturity-processing"
	JobStatementGeneration = "statement-generation"
)

// TriggerFunc decides whether the logical instant falls inside a job's
// trigger window.
type TriggerFunc func(now time.Time) bool

// DailyAt returns a trigger that holds for the whole given hour, every day.
func DailyAt(hour int) TriggerFunc {
	return func(now time.Time) bool {
		return now.Hour() == hour
	}
}

// MonthlyAt returns a trigger that holds for the whole given hour on one
// day of the month.
func MonthlyAt(day, hour int) TriggerFunc {
	return func(now time.Time) bool {
		return now.Day() == day && now.Hour() == hour
	}
}

// Job couples a name, a trigger window and a body.
type Job struct {
	Name    string
	Trigger TriggerFunc
	Run     func()
}

// DispatchTracker records, per job, the last logical date a firing was
// attributed to. The scheduler tick and the admin reset endpoint race on this
// state, so every access holds the mutex.
type DispatchTracker struct {
	mu        sync.Mutex
	lastFired map[string]string // job name -> "YYYY-MM-DD"
}

// NewDispatchTracker creates an empty tracker; every job is in the
// "never fired" state.
func NewDispatchTracker() *DispatchTracker {
	return &DispatchTracker{lastFired: make(map[string]string)}
}

// MarkIfUnfired atomically checks whether the job has already been attributed
// a firing on the given logical date and, if not, marks it. Returns true when
// the caller should invoke the job body.
func (t *DispatchTracker) MarkIfUnfired(job, logicalDate string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastFired[job] == logicalDate {
		return false
	}
	t.lastFired[job] = logicalDate
	return true
}

// LastFired returns the last logical date the job fired, if any.
func (t *DispatchTracker) LastFired(job string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	date, ok := t.lastFired[job]
	return date, ok
}

// Reset clears the job's last-fired date so it may fire again today.
func (t *DispatchTracker) Reset(job string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.lastFired, job)
}

// Dispatcher polls the virtual clock and fires registered jobs through the
// tracker's once-per-logical-day gate.
type Dispatcher struct {
	clk     clock.Clock
	tracker *DispatchTracker
	jobs    []Job
	logger  *slog.Logger
}

// NewDispatcher creates a dispatcher reading time from clk.
func NewDispatcher(clk clock.Clock, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		clk:     clk,
		tracker: NewDispatchTracker(),
		logger:  logger,
	}
}

// Register adds a job. Not safe to call after the scheduler has started.
func (d *Dispatcher) Register(job Job) {
	d.jobs = append(d.jobs, job)
}

// Tracker exposes the dispatch tracker for the admin surface.
func (d *Dispatcher) Tracker() *DispatchTracker {
	return d.tracker
}

// JobNames lists the registered jobs in registration order.
func (d *Dispatcher) JobNames() []string {
	names := make([]string, 0, len(d.jobs))
	for _, job := range d.jobs {
		names = append(names, job.Name)
	}
	return names
}

// Tick evaluates every registered job against the current logical time. Fired
// jobs run synchronously inside the tick, in registration order.
func (d *Dispatcher) Tick() {
	now := d.clk.Now()
	logicalDate := now.Format(time.DateOnly)

	for _, job := range d.jobs {
		if !job.Trigger(now) {
			continue
		}
		if !d.tracker.MarkIfUnfired(job.Name, logicalDate) {
			continue
		}
		d.logger.Info("dispatching job", "job", job.Name, "logical_date", logicalDate)
		d.runJob(job)
	}
}

// runJob isolates panics from a job body. The day stays marked either way, so
// a broken job cannot enter a rapid-fire retry loop.
func (d *Dispatcher) runJob(job Job) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("job panicked", "job", job.Name, "panic", r)
		}
	}()
	job.Run()
}

// TriggerNow runs a job body immediately, bypassing both the trigger window
// and the per-day gate. Boundary idempotency is enforced at the ledger level,
// not here.
func (d *Dispatcher) TriggerNow(name string) error {
	for _, job := range d.jobs {
		if job.Name == name {
			d.logger.Info("manually triggering job", "job", name)
			d.runJob(job)
			return nil
		}
	}
	return fmt.Errorf("unknown job %q", name)
}

// ResetJob clears a job's last-fired date.
func (d *Dispatcher) ResetJob(name string) error {
	for _, job := range d.jobs {
		if job.Name == name {
			d.tracker.Reset(name)
			return nil
		}
	}
	return fmt.Errorf("unknown job %q", name)
}
