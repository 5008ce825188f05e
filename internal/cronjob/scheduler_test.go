package cronjob

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRunsJobs(t *testing.T) {
	s := NewScheduler(nil)

	var ok, failing atomic.Int32
	require.NoError(t, s.Add("ok", "* * * * * *", func(context.Context) error {
		ok.Add(1)
		return nil
	}))
	require.NoError(t, s.Add("failing", "* * * * * *", func(context.Context) error {
		failing.Add(1)
		return errors.New("boom")
	}))

	s.Start()
	assert.Eventually(t, func() bool { return ok.Load() > 0 && failing.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	s.Stop()
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := NewScheduler(nil)
	assert.Error(t, s.Add("bad", "every day", func(context.Context) error { return nil }))
}

func TestSchedulerStopCancelsContext(t *testing.T) {
	s := NewScheduler(nil)
	started := make(chan struct{}, 1)
	var cancelled atomic.Bool

	require.NoError(t, s.Add("long", "* * * * * *", func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	}))

	s.Start()
	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not start")
	}
	s.Stop()
	assert.True(t, cancelled.Load())
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSchedulerLogsRecoveredPanics(t *testing.T) {
	var out lockedBuffer
	s := NewScheduler(slog.New(slog.NewTextHandler(&out, nil)))

	var runs atomic.Int32
	require.NoError(t, s.Add("panicky", "* * * * * *", func(context.Context) error {
		runs.Add(1)
		panic("kaboom")
	}))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		logged := out.String()
		return strings.Contains(logged, "level=ERROR") && strings.Contains(logged, "kaboom")
	}, 3*time.Second, 50*time.Millisecond)
	assert.Positive(t, runs.Load())
}
