package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"apptrack-backend/internal/common/logger"
	"apptrack-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

type countingRunner struct {
	runs atomic.Int64
}

func (c *countingRunner) RunSweep(ctx context.Context) (models.SweepOutcome, models.SweepStats) {
	c.runs.Add(1)
	return models.SweepOutcome{Status: "completed", Message: "ok"}, models.SweepStats{}
}

func TestScheduler_FiresOnInterval(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, 20*time.Millisecond, logger.NewTestLogger(t))

	s.Start(context.Background())
	time.Sleep(110 * time.Millisecond)
	s.Stop()

	got := runner.runs.Load()
	assert.GreaterOrEqual(t, got, int64(3), "expected several ticks")
	assert.LessOrEqual(t, got, int64(6))
}

func TestScheduler_NoImmediateRun(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, time.Hour, logger.NewTestLogger(t))

	s.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	s.Stop()

	assert.Zero(t, runner.runs.Load(), "first run waits a full interval")
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, 10*time.Millisecond, logger.NewTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	time.Sleep(35 * time.Millisecond)
	cancel()
	time.Sleep(30 * time.Millisecond)

	after := runner.runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runner.runs.Load(), "no runs after cancellation")
}
