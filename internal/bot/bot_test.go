package bot

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/giftbot/internal/bot/tasks"
	"github.com/edgard/giftbot/internal/config"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func noopTask(context.Context) error { return nil }

func TestScheduler_SchedulesEnabledKnownTasks(t *testing.T) {
	t.Parallel()

	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		config.TaskSQLMaintenance: {Enabled: true, Schedule: "0 0 4 * * *"},
		config.TaskSessionSweep:   {Enabled: false, Schedule: "0 */10 * * * *"},
		"unregistered":            {Enabled: true, Schedule: "0 0 * * * *"},
		"bad_schedule":            {Enabled: true, Schedule: "not a cron"},
	}}
	taskMap := map[string]tasks.ScheduledTaskFunc{
		config.TaskSQLMaintenance: noopTask,
		config.TaskSessionSweep:   noopTask,
		"bad_schedule":            noopTask,
	}

	s, err := NewScheduler(discardLogger, cfg, taskMap)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	t.Cleanup(func() { _ = s.Stop() })

	assert.Error(t, s.Start(), "second start fails")

	jobs := s.Jobs()
	sort.Strings(jobs)
	assert.Equal(t, []string{config.TaskSQLMaintenance}, jobs)
}

func TestScheduler_StopWhenNotRunning(t *testing.T) {
	t.Parallel()

	s, err := NewScheduler(discardLogger, nil, nil)
	require.NoError(t, err)
	assert.NoError(t, s.Stop())
}

type blockingListener struct{ started chan struct{} }

func (l *blockingListener) Start(ctx context.Context) {
	close(l.started)
	<-ctx.Done()
}

type returningListener struct{}

func (returningListener) Start(context.Context) {}

func TestBot_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	s, err := NewScheduler(discardLogger, &config.SchedulerConfig{}, nil)
	require.NoError(t, err)

	listener := &blockingListener{started: make(chan struct{})}
	b := NewBot(discardLogger, listener, s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	<-listener.started
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestBot_RunFailsWhenListenerExits(t *testing.T) {
	t.Parallel()

	s, err := NewScheduler(discardLogger, &config.SchedulerConfig{}, nil)
	require.NoError(t, err)

	b := NewBot(discardLogger, returningListener{}, s)
	assert.Error(t, b.Run(context.Background()))
}
