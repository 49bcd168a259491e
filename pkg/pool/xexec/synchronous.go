package xexec

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/omeyang/ckit/internal/taskq"
)

// 编译时接口检查
var _ Executor = (*Synchronous)(nil)

type execState int

const (
	execCreated execState = iota
	execStarted
	execShutdown
)

// Synchronous 是会话独占 worker 的执行器。
//
// 每次 Schedule 开启一个新会话：为它拉起一个 worker goroutine，
// worker 串行消费会话的私有队列，队列排空后会话结束、worker 退出。
// 并发 worker 数超过让出阈值（默认 CPU 核数）时，每个任务结束后
// worker 主动让出调度器，避免会话风暴挤占其他 goroutine。
type Synchronous struct {
	label          string
	logger         *slog.Logger
	yieldThreshold int

	mu    sync.Mutex
	state execState
	// wg 跟踪存活会话，Shutdown 在其上等待静默。
	wg sync.WaitGroup

	numRunning    atomic.Int64
	nextSessionID atomic.Int64
}

// NewSynchronous 创建 Synchronous 执行器。label 用于日志与错误消息。
func NewSynchronous(label string, o ...Option) *Synchronous {
	cfg := execConfig{
		logger:         slog.Default(),
		yieldThreshold: runtime.NumCPU(),
	}
	for _, opt := range o {
		opt(&cfg)
	}
	return &Synchronous{
		label:          label,
		logger:         cfg.logger,
		yieldThreshold: cfg.yieldThreshold,
	}
}

// Start 使执行器开始接受任务。重复调用是 no-op。
func (e *Synchronous) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == execShutdown {
		return fmt.Errorf("%w: executor %s", ErrExecutorShutdown, e.label)
	}
	e.state = execStarted
	return nil
}

// Schedule 开启一个新会话并提交其首个任务。task 不得为 nil，否则 panic。
func (e *Synchronous) Schedule(task Task) error {
	if task == nil {
		panic("xexec: nil task")
	}

	e.mu.Lock()
	switch e.state {
	case execCreated:
		e.mu.Unlock()
		return fmt.Errorf("%w: executor %s", ErrNotStarted, e.label)
	case execShutdown:
		e.mu.Unlock()
		return fmt.Errorf("%w: executor %s", ErrExecutorShutdown, e.label)
	}
	// 在锁内 Add，保证 Shutdown 置位后不会再有新会话漏过 Wait。
	e.wg.Add(1)
	e.mu.Unlock()

	sess := &Session{
		id:    e.nextSessionID.Add(1),
		queue: taskq.New[Task](),
	}
	sess.dispatch = sess.queue.Push
	sess.queue.Push(task)
	go e.runSession(sess)
	return nil
}

// runSession 是会话 worker 的主循环：串行消费私有队列直到排空。
func (e *Synchronous) runSession(sess *Session) {
	defer e.wg.Done()
	e.numRunning.Add(1)
	defer e.numRunning.Add(-1)

	e.logger.Debug("xexec: session started", "executor", e.label, "session", sess.id)
	for !sess.queue.Empty() {
		task := sess.queue.Pop()
		task(sess)
		if int(e.numRunning.Load()) > e.yieldThreshold {
			runtime.Gosched()
		}
	}
	e.logger.Debug("xexec: session finished", "executor", e.label, "session", sess.id)
}

// Shutdown 停止接受新任务并等待所有会话结束。
//
// 只能等待，无法中断执行中的任务：ctx 到期返回 [ErrExceededTimeLimit]，
// 残余会话仍会在任务结束后自然退出。可多次调用。
func (e *Synchronous) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	e.state = execShutdown
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: executor %s shutdown passed deadline, %d workers still running",
			ErrExceededTimeLimit, e.label, e.numRunning.Load())
	}
}

// Stats 返回当前状态快照。
func (e *Synchronous) Stats() Stats {
	return Stats{
		Label:          e.label,
		WorkersRunning: int(e.numRunning.Load()),
	}
}
