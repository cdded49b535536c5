// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a unit of background work.
type Job interface {
	Run(ctx context.Context) error
	Name() string
}

// Scheduler manages background jobs.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	log     *slog.Logger
}

// New creates a scheduler. Each run gets its own context bounded by timeout.
// Overlapping runs of the same job are skipped.
func New(timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		timeout: timeout,
		log:     slog.With("component", "scheduler"),
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}

// AddJob registers a job with a standard five-field cron spec or a descriptor
// such as "@every 6h".
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		_ = s.RunNow(job)
	})
	if err != nil {
		return err
	}
	s.log.Info("job registered", "schedule", schedule, "job", job.Name())
	return nil
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(job Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		s.log.Error("job failed", "job", job.Name(), "error", err)
		return err
	}
	s.log.Debug("job completed", "job", job.Name(), "elapsed", time.Since(start))
	return nil
}
