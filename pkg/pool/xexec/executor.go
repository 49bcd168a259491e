package xexec

import (
	"context"
	"log/slog"
)

// Task 是提交给执行器的工作单元。
// 任务通过传入的 [Session] 句柄投递后续任务。
type Task func(s *Session)

// ScheduleMode 控制会话内续作的执行方式。
type ScheduleMode int

const (
	// ModeDispatch 把任务追加到会话队列尾部，等当前任务返回后执行。
	ModeDispatch ScheduleMode = iota
	// ModeProcess 在当前调用栈上内联执行任务。
	// 内联深度超过上限后自动降级为 ModeDispatch。
	ModeProcess
)

// Executor 是会话任务执行器的统一接口。
//
// 典型生命周期：Start -> 若干 Schedule -> Shutdown。
// Schedule 为每次调用开启一个新会话；会话内的任务串行执行。
type Executor interface {
	// Start 使执行器开始接受任务。重复调用是 no-op；
	// 已关闭的执行器返回 [ErrExecutorShutdown]。
	Start() error

	// Schedule 开启一个新会话并提交其首个任务。
	// 未启动返回 [ErrNotStarted]，已关闭返回 [ErrExecutorShutdown]。
	Schedule(task Task) error

	// Shutdown 停止接受新任务并等待所有会话结束。
	// ctx 到期仍有 worker 存活时返回 [ErrExceededTimeLimit]。
	// 可多次调用，后续调用继续等待同一次关闭。
	Shutdown(ctx context.Context) error

	// Stats 返回执行器的运行状态快照。
	Stats() Stats
}

// Stats 是执行器的状态快照。
type Stats struct {
	// Label 是执行器的标识名。
	Label string
	// WorkersRunning 是当前存活的 worker 数。
	WorkersRunning int
}

// Option 定义执行器的环境性可选配置。
type Option func(*execConfig)

type execConfig struct {
	logger         *slog.Logger
	yieldThreshold int
}

// WithLogger 设置自定义日志记录器。
// 默认使用 slog.Default()。传入 nil 将被忽略，保持使用默认值。
func WithLogger(logger *slog.Logger) Option {
	return func(c *execConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithYieldThreshold 设置 [Synchronous] 的让出阈值：
// 并发 worker 数超过该值时，每个任务结束后主动让出调度器。
// 默认为 CPU 核数。传入非正值将被忽略。
func WithYieldThreshold(n int) Option {
	return func(c *execConfig) {
		if n > 0 {
			c.yieldThreshold = n
		}
	}
}
