// Package scheduler reruns the survey report on a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/example/mhsurvey/pkg/models"
)

// Runner produces a report
type Runner interface {
	Run(ctx context.Context) (*models.Report, error)
}

// Notifier interface for publishing finished reports
type Notifier interface {
	Publish(ctx context.Context, r *models.Report) error
}

// Scheduler manages the periodic report job
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    Runner
	notifier  Notifier
	interval  time.Duration
	logger    *zap.Logger
}

// New creates a new scheduler instance. notifier may be nil.
func New(runner Runner, notifier Notifier, interval time.Duration, logger *zap.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	// A run that outlasts the interval delays the next one instead of overlapping it
	s.SingletonModeAll()

	return &Scheduler{
		scheduler: s,
		runner:    runner,
		notifier:  notifier,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the report job and runs it right away in the background
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("invalid schedule interval %s", s.interval)
	}
	if _, err := s.scheduler.Every(s.interval).Do(s.run, ctx); err != nil {
		return fmt.Errorf("failed to schedule report job: %w", err)
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", zap.Duration("every", s.interval))
	return nil
}

// Stop terminates all scheduled tasks and waits for a running job
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info("scheduler stopped")
}

// RunOnce builds one report and hands it to the notifier
func (s *Scheduler) RunOnce(ctx context.Context) (*models.Report, error) {
	report, err := s.runner.Run(ctx)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.Publish(ctx, report); err != nil {
			return report, fmt.Errorf("failed to publish report %s: %w", report.RunID, err)
		}
	}
	return report, nil
}

// run is the scheduled job. Failures are logged and the schedule continues.
func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	report, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.Error("scheduled report failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled report finished",
		zap.String("run_id", report.RunID),
		zap.Int("rows", report.Rows),
		zap.Duration("took", time.Since(start)))
}
