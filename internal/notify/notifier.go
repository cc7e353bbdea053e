// internal/notify/notifier.go
package notify

import (
	"context"
	"fmt"
	"time"

	"apptrack-backend/internal/common/logger"
	"apptrack-backend/internal/common/metrics"
	"apptrack-backend/internal/models"
)

// JobSource provides the bulk deadline query the sweep runs once per day.
type JobSource interface {
	FindActiveWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]models.JobApplication, error)
}

// UserDirectory resolves account IDs to email addresses.
type UserDirectory interface {
	GetEmail(ctx context.Context, userID string) (string, error)
}

// Mailer dispatches a single email. It reports success or failure as a
// boolean so a bad recipient can never abort the surrounding sweep.
type Mailer interface {
	Send(ctx context.Context, recipients []string, subject, htmlBody string) bool
}

// DeadlineNotifier runs the daily deadline-reminder sweep.
type DeadlineNotifier struct {
	jobs   JobSource
	users  UserDirectory
	mailer Mailer
	log    logger.Logger

	lookaheadDays int

	// now is swappable for tests.
	now func() time.Time
}

func NewDeadlineNotifier(jobs JobSource, users UserDirectory, mailer Mailer, log logger.Logger, lookaheadDays int) *DeadlineNotifier {
	if lookaheadDays <= 0 {
		lookaheadDays = 7
	}
	return &DeadlineNotifier{
		jobs:          jobs,
		users:         users,
		mailer:        mailer,
		log:           log,
		lookaheadDays: lookaheadDays,
		now:           time.Now,
	}
}

// RunSweep scans all active job applications with deadlines inside the
// lookahead window and emails a reminder for each one whose deadline lands
// exactly 1, 3, or 7 days from today. Per-job failures are counted and
// skipped; only the initial fetch can fail the whole run.
func (n *DeadlineNotifier) RunSweep(ctx context.Context) (models.SweepOutcome, models.SweepStats) {
	stats := models.SweepStats{}

	today := truncateToDay(n.now().UTC())
	windowEnd := today.AddDate(0, 0, n.lookaheadDays)

	targets := make(map[time.Time]string, len(models.ReminderTiers))
	for _, tier := range models.ReminderTiers {
		targets[today.AddDate(0, 0, tier.DaysAhead)] = tier.Label
	}

	jobs, err := n.jobs.FindActiveWithDeadlineBetween(ctx, today, windowEnd)
	if err != nil {
		n.log.Error("deadline sweep aborted, job fetch failed", map[string]interface{}{
			"error": err.Error(),
		})
		metrics.SweepRunsTotal.WithLabelValues("error").Inc()
		return models.SweepOutcome{
			Status:  "error",
			Message: fmt.Sprintf("failed to fetch jobs with upcoming deadlines: %v", err),
		}, stats
	}

	n.log.Info("deadline sweep started", map[string]interface{}{
		"window_start": today.Format("2006-01-02"),
		"window_end":   windowEnd.Format("2006-01-02"),
		"candidates":   len(jobs),
	})

	// One directory lookup per user for the whole run.
	emailCache := make(map[string]string)

	for _, job := range jobs {
		if job.Deadline == nil {
			continue
		}

		tierLabel, ok := targets[truncateToDay(job.Deadline.UTC())]
		if !ok {
			// Inside the window but not on a reminder day.
			continue
		}

		email, cached := emailCache[job.UserID]
		if !cached {
			email, err = n.users.GetEmail(ctx, job.UserID)
			if err != nil {
				n.log.Warn("could not resolve user email, skipping job", map[string]interface{}{
					"jobId":  job.ID,
					"userId": job.UserID,
					"error":  err.Error(),
				})
				stats.Errors++
				metrics.SweepErrors.Inc()
				continue
			}
			emailCache[job.UserID] = email
		}

		subject := fmt.Sprintf("%s: Job Application Deadline - %s (%s)", tierLabel, job.Company, job.Position)
		body := buildReminderHTML(tierLabel, &job)

		if n.mailer.Send(ctx, []string{email}, subject, body) {
			stats.NotificationsSent++
			metrics.SweepNotificationsSent.Inc()
			n.log.Info("reminder sent", map[string]interface{}{
				"jobId": job.ID,
				"tier":  tierLabel,
			})
		} else {
			stats.Errors++
			metrics.SweepErrors.Inc()
			n.log.Warn("reminder send failed", map[string]interface{}{
				"jobId": job.ID,
				"tier":  tierLabel,
			})
		}
	}

	metrics.SweepRunsTotal.WithLabelValues("completed").Inc()
	n.log.Info("deadline sweep finished", map[string]interface{}{
		"notifications_sent": stats.NotificationsSent,
		"errors":             stats.Errors,
	})

	return models.SweepOutcome{
		Status: "completed",
		Message: fmt.Sprintf("sweep completed: %d notifications sent, %d errors",
			stats.NotificationsSent, stats.Errors),
	}, stats
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func buildReminderHTML(tierLabel string, job *models.JobApplication) string {
	deadlineStr := ""
	if job.Deadline != nil {
		deadlineStr = job.Deadline.Format("January 2, 2006")
	}
	return fmt.Sprintf(`
		<html>
		<body style="font-family: Arial, sans-serif; color: #333;">
			<h2>%s</h2>
			<p>The application deadline for the following position is approaching:</p>
			<table cellpadding="6">
				<tr><td><strong>Company</strong></td><td>%s</td></tr>
				<tr><td><strong>Position</strong></td><td>%s</td></tr>
				<tr><td><strong>Deadline</strong></td><td>%s</td></tr>
				<tr><td><strong>Status</strong></td><td>%s</td></tr>
			</table>
			<p>Log in to your tracker to review the application.</p>
		</body>
		</html>`,
		tierLabel, job.Company, job.Position, deadlineStr, job.Status)
}
