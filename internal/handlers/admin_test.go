package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"apptrack-backend/internal/common/logger"
	"apptrack-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type mockSweepRunner struct {
	mu   sync.Mutex
	runs int
	done chan struct{}
}

func (m *mockSweepRunner) RunSweep(ctx context.Context) (models.SweepOutcome, models.SweepStats) {
	m.mu.Lock()
	m.runs++
	m.mu.Unlock()
	if m.done != nil {
		close(m.done)
	}
	return models.SweepOutcome{Status: "completed", Message: "ok"}, models.SweepStats{}
}

func newAdminRouter(t *testing.T, runner SweepRunner, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewAdminHandler(runner, logger.NewTestLogger(t))
	r := gin.New()
	admin := r.Group("/api/admin")
	admin.Use(AdminSecretRequired(secret))
	admin.POST("/tasks/send-deadline-reminders", h.TriggerDeadlineSweep)
	return r
}

func TestTriggerDeadlineSweep_AcceptedAndRuns(t *testing.T) {
	runner := &mockSweepRunner{done: make(chan struct{})}
	router := newAdminRouter(t, runner, "s3cret")

	req := httptest.NewRequest("POST", "/api/admin/tasks/send-deadline-reminders", nil)
	req.Header.Set("X-Admin-Secret", "s3cret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "triggered in the background")

	select {
	case <-runner.done:
	case <-time.After(2 * time.Second):
		t.Fatal("background sweep never ran")
	}
}

func TestTriggerDeadlineSweep_WrongSecret(t *testing.T) {
	runner := &mockSweepRunner{}
	router := newAdminRouter(t, runner, "s3cret")

	req := httptest.NewRequest("POST", "/api/admin/tasks/send-deadline-reminders", nil)
	req.Header.Set("X-Admin-Secret", "guess")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	runner.mu.Lock()
	defer runner.mu.Unlock()
	assert.Zero(t, runner.runs)
}

func TestTriggerDeadlineSweep_EmptyConfiguredSecretAlwaysForbidden(t *testing.T) {
	router := newAdminRouter(t, &mockSweepRunner{}, "")

	req := httptest.NewRequest("POST", "/api/admin/tasks/send-deadline-reminders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
