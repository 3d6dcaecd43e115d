/**
 * @description
 * Cron wrapper that drives the dispatcher. The cron layer only provides the
 * fixed wall-clock tick and panic recovery; all logical-time decisions (which
 * jobs fire, and the once-per-logical-day gate) live in the dispatcher, which
 * reads the virtual clock on every tick.
 */
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/SOOD-11/FD-Module-sub000/internal/config"
)

// Scheduler manages the recurring dispatcher tick.
type Scheduler struct {
	cron       *cron.Cron
	dispatcher *Dispatcher
	logger     *slog.Logger
	config     config.Config
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(dispatcher *Dispatcher, logger *slog.Logger, cfg config.Config) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	if cfg.SchedulerTickSeconds <= 0 {
		cfg.SchedulerTickSeconds = 60
	}

	return &Scheduler{
		cron:       c,
		dispatcher: dispatcher,
		logger:     logger,
		config:     cfg,
	}
}

// Start registers the tick and starts the cron scheduler.
func (s *Scheduler) Start() {
	spec := fmt.Sprintf("@every %ds", s.config.SchedulerTickSeconds)
	if _, err := s.cron.AddFunc(spec, s.dispatcher.Tick); err != nil {
		s.logger.Error("failed to schedule dispatcher tick", "error", err)
		return
	}
	s.logger.Info("scheduled dispatcher tick", "interval_seconds", s.config.SchedulerTickSeconds,
		"jobs", s.dispatcher.JobNames())
	s.cron.Start()
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
