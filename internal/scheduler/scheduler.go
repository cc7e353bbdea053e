// internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"time"

	"apptrack-backend/internal/common/logger"
	"apptrack-backend/internal/models"
)

// SweepRunner is the task the scheduler drives.
type SweepRunner interface {
	RunSweep(ctx context.Context) (models.SweepOutcome, models.SweepStats)
}

// Scheduler runs the deadline-reminder sweep on a fixed interval. It is
// deliberately in-process; one replica owns the schedule.
type Scheduler struct {
	notifier SweepRunner
	interval time.Duration
	log      logger.Logger
	stop     chan struct{}
	done     chan struct{}
}

func New(notifier SweepRunner, interval time.Duration, log logger.Logger) *Scheduler {
	return &Scheduler{
		notifier: notifier,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the ticker loop in its own goroutine. The first sweep
// fires after one full interval, not immediately, so restarts do not
// double-send reminders.
func (s *Scheduler) Start(ctx context.Context) {
	go s.run(ctx)
	s.log.Info("sweep scheduler started", map[string]interface{}{
		"interval": s.interval.String(),
	})
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			outcome, stats := s.notifier.RunSweep(ctx)
			s.log.Info("scheduled sweep finished", map[string]interface{}{
				"status":             outcome.Status,
				"message":            outcome.Message,
				"notifications_sent": stats.NotificationsSent,
				"errors":             stats.Errors,
			})
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		}
	}
}

// Stop halts the schedule and waits for the loop to exit.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
	s.log.Info("sweep scheduler stopped", nil)
}
