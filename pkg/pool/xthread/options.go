package xthread

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	// defaultMaxWorkers 是 MaxWorkers 未设置（0）时的默认上限。
	defaultMaxWorkers = 8
	// defaultMaxIdleWorkerAge 是 MaxIdleWorkerAge 未设置（0）时的默认值。
	defaultMaxIdleWorkerAge = 30 * time.Second
)

// nextUnnamedPoolID 为未命名 pool 分配顺序编号。
var nextUnnamedPoolID atomic.Int64

// Options 是 Pool 的构造期配置，构造后不可变。
//
// 零值字段按以下规则补全默认值：
//   - Name 为空时取 "ThreadPool<N>"（N 为进程内递增编号）
//   - WorkerNamePrefix 为空时取 "<Name>-"
//   - MaxWorkers 为 0 时取 8
//   - MaxIdleWorkerAge 为 0 时取 30s
//
// MinWorkers 的零值是合法取值（允许池缩到 0 个 worker），不做补全。
type Options struct {
	// Name 是 pool 名称，用于日志、panic 消息和指标属性。
	Name string

	// WorkerNamePrefix 是 worker 名称前缀，worker 名为前缀加递增编号。
	WorkerNamePrefix string

	// MinWorkers 是 worker 数量下限，空闲回收不会缩到此值以下。必须 >= 0。
	MinWorkers int

	// MaxWorkers 是 worker 数量上限。必须 >= 1 且 >= MinWorkers。
	MaxWorkers int

	// MaxIdleWorkerAge 是 worker 空闲多久后具备退出资格。
	// 回收按池级错峰进行：每个窗口内最多退出一个 worker。
	MaxIdleWorkerAge time.Duration

	// OnCreateWorker 在每个 worker goroutine 启动时调用，传入 worker 名称。
	// 可用于注册执行上下文（日志字段、线程绑定等）。可为 nil。
	//
	// 回调 panic 被视为环境性的创建失败：pool 记录日志后以现有容量
	// 继续运行，不会中止进程。
	OnCreateWorker func(workerName string)
}

// Validate 校验 Options 的取值范围。
// 按补全默认值后的视图校验：MaxWorkers 为 0 视为未设置，不算违规。
//
// New 在校验失败时 panic（构造期配置错误是编程错误）；
// LoadOptions 等环境输入路径返回本方法的错误。
func (o Options) Validate() error {
	maxWorkers := o.MaxWorkers
	if maxWorkers == 0 {
		maxWorkers = defaultMaxWorkers
	}
	if maxWorkers < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxWorkers, o.MaxWorkers)
	}
	if o.MinWorkers < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMinWorkers, o.MinWorkers)
	}
	if o.MinWorkers > maxWorkers {
		return fmt.Errorf("%w: min %d, max %d", ErrMinExceedsMax, o.MinWorkers, maxWorkers)
	}
	if o.MaxIdleWorkerAge < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidIdleAge, o.MaxIdleWorkerAge)
	}
	return nil
}

// withDefaults 返回补全默认值后的副本。
func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = fmt.Sprintf("ThreadPool%d", nextUnnamedPoolID.Add(1))
	}
	if o.WorkerNamePrefix == "" {
		o.WorkerNamePrefix = o.Name + "-"
	}
	if o.MaxWorkers == 0 {
		o.MaxWorkers = defaultMaxWorkers
	}
	if o.MaxIdleWorkerAge == 0 {
		o.MaxIdleWorkerAge = defaultMaxIdleWorkerAge
	}
	return o
}

// Option 定义 Pool 的环境性可选配置。
// 领域配置走 Options 结构体，这里只承载日志等基础设施注入。
type Option func(*poolConfig)

type poolConfig struct {
	logger *slog.Logger
}

func defaultPoolConfig() poolConfig {
	return poolConfig{
		logger: slog.Default(),
	}
}

// WithLogger 设置自定义日志记录器。
// 默认使用 slog.Default()。传入 nil 将被忽略，保持使用默认值。
func WithLogger(logger *slog.Logger) Option {
	return func(c *poolConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}
