// Package scheduler runs periodic maintenance jobs using gocron.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/bloomagain/bloombot/internal/session"
	"github.com/bloomagain/bloombot/internal/userdata"
)

// Scheduler owns the background job runner. Jobs are best-effort: a
// failing run is logged and retried at the next tick.
type Scheduler struct {
	scheduler gocron.Scheduler
	sessions  *session.Store
	users     *userdata.Store
	logger    *slog.Logger
}

// New creates a Scheduler with the standard job set registered: nightly
// database maintenance and an hourly session-store gauge.
func New(sessions *session.Store, users *userdata.Store, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	gs, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	s := &Scheduler{
		scheduler: gs,
		sessions:  sessions,
		users:     users,
		logger:    logger.With("component", "scheduler"),
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) registerJobs() error {
	// Nightly VACUUM/optimize on the user data store. A nil store makes
	// this a no-op.
	if _, err := s.scheduler.NewJob(
		gocron.CronJob("0 3 * * *", false),
		gocron.NewTask(s.wrap("db_maintenance", s.runDBMaintenance)),
		gocron.WithName("db_maintenance"),
	); err != nil {
		return fmt.Errorf("failed to schedule db_maintenance: %w", err)
	}

	if _, err := s.scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(s.wrap("session_stats", s.logSessionStats)),
		gocron.WithName("session_stats"),
	); err != nil {
		return fmt.Errorf("failed to schedule session_stats: %w", err)
	}

	return nil
}

// wrap adds run/finish logging around a job function.
func (s *Scheduler) wrap(name string, job func(context.Context) error) func(context.Context) {
	return func(ctx context.Context) {
		start := time.Now()
		s.logger.Debug("running scheduled job", "job", name)
		if err := job(ctx); err != nil {
			s.logger.Error("scheduled job failed", "job", name, "error", err)
			return
		}
		s.logger.Info("scheduled job finished", "job", name, "duration", time.Since(start))
	}
}

func (s *Scheduler) runDBMaintenance(ctx context.Context) error {
	return s.users.RunMaintenance(ctx)
}

func (s *Scheduler) logSessionStats(context.Context) error {
	s.logger.Info("session store stats", "active_sessions", s.sessions.Len())
	return nil
}

// Start begins job execution.
func (s *Scheduler) Start() {
	s.scheduler.Start()
	s.logger.Info("scheduler started", "jobs", len(s.scheduler.Jobs()))
}

// Stop shuts the scheduler down, waiting for running jobs.
func (s *Scheduler) Stop() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	s.logger.Info("scheduler stopped")
	return nil
}
