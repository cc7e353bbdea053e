// internal/handlers/admin.go
package handlers

import (
	"context"
	"net/http"

	"apptrack-backend/internal/common/logger"
	"apptrack-backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SweepRunner triggers the deadline-reminder sweep.
type SweepRunner interface {
	RunSweep(ctx context.Context) (models.SweepOutcome, models.SweepStats)
}

// AdminHandler exposes internal task endpoints guarded by a shared secret.
type AdminHandler struct {
	notifier SweepRunner
	log      logger.Logger
}

func NewAdminHandler(notifier SweepRunner, log logger.Logger) *AdminHandler {
	return &AdminHandler{notifier: notifier, log: log}
}

// TriggerDeadlineSweep handles POST /api/admin/tasks/send-deadline-reminders.
// The sweep runs in the background; the endpoint acknowledges immediately.
func (h *AdminHandler) TriggerDeadlineSweep(c *gin.Context) {
	go func() {
		// Detached from the request so a closed connection cannot cancel it.
		outcome, stats := h.notifier.RunSweep(context.Background())
		h.log.Info("admin-triggered sweep finished", map[string]interface{}{
			"status":             outcome.Status,
			"message":            outcome.Message,
			"notifications_sent": stats.NotificationsSent,
			"errors":             stats.Errors,
		})
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "deadline reminder task has been triggered in the background",
	})
}
