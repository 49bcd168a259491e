package xexec

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSynchronous(t *testing.T, o ...Option) *Synchronous {
	t.Helper()
	e := NewSynchronous(t.Name(), o...)
	require.NoError(t, e.Start())
	t.Cleanup(func() {
		require.NoError(t, e.Shutdown(context.Background()))
	})
	return e
}

func TestSynchronous_Basic(t *testing.T) {
	e := newTestSynchronous(t)

	var ran atomic.Int64
	for i := 0; i < 20; i++ {
		require.NoError(t, e.Schedule(func(s *Session) { ran.Add(1) }))
	}
	require.NoError(t, e.Shutdown(context.Background()))
	assert.Equal(t, int64(20), ran.Load())
}

func TestSynchronous_ScheduleBeforeStart(t *testing.T) {
	e := NewSynchronous("not-started")
	err := e.Schedule(func(s *Session) {})
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestSynchronous_ScheduleAfterShutdown(t *testing.T) {
	e := NewSynchronous("shut")
	require.NoError(t, e.Start())
	require.NoError(t, e.Shutdown(context.Background()))

	err := e.Schedule(func(s *Session) {})
	assert.ErrorIs(t, err, ErrExecutorShutdown)
}

func TestSynchronous_StartAfterShutdown(t *testing.T) {
	e := NewSynchronous("restart")
	require.NoError(t, e.Start())
	require.NoError(t, e.Shutdown(context.Background()))
	assert.ErrorIs(t, e.Start(), ErrExecutorShutdown)
}

func TestSynchronous_StartIdempotent(t *testing.T) {
	e := newTestSynchronous(t)
	assert.NoError(t, e.Start())
}

func TestSynchronous_NilTaskPanics(t *testing.T) {
	e := newTestSynchronous(t)
	require.Panics(t, func() { _ = e.Schedule(nil) })
}

func TestSynchronous_SessionFIFO(t *testing.T) {
	e := newTestSynchronous(t)

	var mu sync.Mutex
	var order []string
	record := func(step string) {
		mu.Lock()
		order = append(order, step)
		mu.Unlock()
	}

	require.NoError(t, e.Schedule(func(s *Session) {
		record("first")
		s.Schedule(ModeDispatch, func(s *Session) { record("a") })
		s.Schedule(ModeDispatch, func(s *Session) { record("b") })
		s.Schedule(ModeProcess, func(s *Session) { record("inline") })
		record("first-done")
	}))
	require.NoError(t, e.Shutdown(context.Background()))

	// ModeProcess 在当前任务内执行，ModeDispatch 排在队尾
	assert.Equal(t, []string{"first", "inline", "first-done", "a", "b"}, order)
}

func TestSynchronous_SessionsRunConcurrently(t *testing.T) {
	e := newTestSynchronous(t)

	// 两个会话互相等待对方启动，只有并发执行才能都完成
	aStarted := make(chan struct{})
	bStarted := make(chan struct{})
	require.NoError(t, e.Schedule(func(s *Session) {
		close(aStarted)
		<-bStarted
	}))
	require.NoError(t, e.Schedule(func(s *Session) {
		close(bStarted)
		<-aStarted
	}))
	require.NoError(t, e.Shutdown(context.Background()))
}

func TestSynchronous_SessionIDsDistinct(t *testing.T) {
	e := newTestSynchronous(t)

	ids := make(chan int64, 3)
	for i := 0; i < 3; i++ {
		require.NoError(t, e.Schedule(func(s *Session) { ids <- s.ID() }))
	}
	require.NoError(t, e.Shutdown(context.Background()))
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate session id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, 3)
}

func TestSynchronous_ShutdownTimeout(t *testing.T) {
	e := NewSynchronous("slow")
	require.NoError(t, e.Start())

	release := make(chan struct{})
	require.NoError(t, e.Schedule(func(s *Session) { <-release }))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := e.Shutdown(ctx)
	assert.ErrorIs(t, err, ErrExceededTimeLimit)

	// 超时只表示等待失败，关闭请求已生效；放行后再次等待成功
	close(release)
	assert.NoError(t, e.Shutdown(context.Background()))
}

func TestSynchronous_Stats(t *testing.T) {
	e := NewSynchronous("stats")
	require.NoError(t, e.Start())

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, e.Schedule(func(s *Session) {
		close(started)
		<-release
	}))
	<-started

	s := e.Stats()
	assert.Equal(t, "stats", s.Label)
	assert.Equal(t, 1, s.WorkersRunning)

	close(release)
	require.NoError(t, e.Shutdown(context.Background()))
	assert.Equal(t, 0, e.Stats().WorkersRunning)
}

func TestSynchronous_YieldThreshold(t *testing.T) {
	// 让出路径的行为冒烟：阈值压到 1，多个会话仍应全部完成
	e := newTestSynchronous(t, WithYieldThreshold(1))

	var ran atomic.Int64
	for i := 0; i < 8; i++ {
		require.NoError(t, e.Schedule(func(s *Session) {
			for j := 0; j < 4; j++ {
				s.Schedule(ModeDispatch, func(s *Session) { ran.Add(1) })
			}
			ran.Add(1)
		}))
	}
	require.NoError(t, e.Shutdown(context.Background()))
	assert.Equal(t, int64(8*5), ran.Load())
}
