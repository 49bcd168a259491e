package xexec

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/omeyang/ckit/pkg/pool/xthread"
)

// 编译时接口检查
var _ Executor = (*Pooled)(nil)

// Pooled 是共享 pool 的执行器：会话任务投到内部的 [xthread.Pool] 上执行，
// 大量短会话复用固定容量的 worker，而不是每会话一个 goroutine。
//
// 会话内 ModeDispatch 的续作重新投递到 pool，可能与后续会话交错执行；
// 需要严格会话内顺序时用 [Synchronous]。
type Pooled struct {
	label  string
	logger *slog.Logger
	pool   *xthread.Pool

	mu    sync.Mutex
	state execState
	// done 在 pool 完整关闭后关闭，多次 Shutdown 等待同一次关闭。
	done chan struct{}

	nextSessionID atomic.Int64
}

// NewPooled 创建 Pooled 执行器，内部 pool 按 poolOpts 构造。
// poolOpts.Name 为空时沿用 label。非法的 poolOpts 与 [xthread.New] 一样 panic。
func NewPooled(label string, poolOpts xthread.Options, o ...Option) *Pooled {
	cfg := execConfig{logger: slog.Default()}
	for _, opt := range o {
		opt(&cfg)
	}
	if poolOpts.Name == "" {
		poolOpts.Name = label
	}
	return &Pooled{
		label:  label,
		logger: cfg.logger,
		pool:   xthread.New(poolOpts, xthread.WithLogger(cfg.logger)),
		done:   make(chan struct{}),
	}
}

// Start 启动内部 pool。重复调用是 no-op。
func (e *Pooled) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case execShutdown:
		return fmt.Errorf("%w: executor %s", ErrExecutorShutdown, e.label)
	case execStarted:
		return nil
	}
	e.pool.Startup()
	e.state = execStarted
	return nil
}

// Schedule 开启一个新会话并提交其首个任务。task 不得为 nil，否则 panic。
func (e *Pooled) Schedule(task Task) error {
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
	e.mu.Unlock()

	e.submit(task)
	return nil
}

// submit 把任务包装成 pool 任务投递。
// 每次投递生成独立的会话句柄：续作可能与原任务并发执行，
// 不能共享可变的会话状态。
func (e *Pooled) submit(task Task) {
	sess := &Session{id: e.nextSessionID.Add(1)}
	sess.dispatch = e.submit
	e.pool.Schedule(func(err error) {
		if err != nil {
			// pool 已在关闭流程中短路了该任务
			e.logger.Debug("xexec: task short-circuited",
				"executor", e.label, "session", sess.id, "err", err)
			return
		}
		task(sess)
	})
}

// Shutdown 关闭内部 pool 并等待排空。
// ctx 到期返回 [ErrExceededTimeLimit]；可多次调用，等待同一次关闭。
func (e *Pooled) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	first := e.state != execShutdown
	e.state = execShutdown
	e.mu.Unlock()

	if first {
		e.pool.Shutdown()
		go func() {
			e.pool.Join()
			close(e.done)
		}()
	}
	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: executor %s shutdown passed deadline",
			ErrExceededTimeLimit, e.label)
	}
}

// Stats 返回当前状态快照，WorkersRunning 取内部 pool 的存活 worker 数。
func (e *Pooled) Stats() Stats {
	return Stats{
		Label:          e.label,
		WorkersRunning: e.pool.Stats().NumWorkers,
	}
}
