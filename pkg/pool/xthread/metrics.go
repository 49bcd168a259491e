package xthread

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultInstrumentationName = "github.com/omeyang/ckit/xthread"

	metricPoolWorkers      = "ckit.pool.workers"
	metricPoolIdleWorkers  = "ckit.pool.idle_workers"
	metricPoolPendingTasks = "ckit.pool.pending_tasks"
)

type metricsConfig struct {
	instrumentationName string
	meterProvider       metric.MeterProvider
}

// MetricsOption 定义指标导出的配置选项。
type MetricsOption func(*metricsConfig)

// WithInstrumentationName 设置 OTel instrumentation 名称。
func WithInstrumentationName(name string) MetricsOption {
	return func(cfg *metricsConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithMeterProvider 设置 MeterProvider。
// 默认使用全局 otel.GetMeterProvider()。传入 nil 将被忽略。
func WithMeterProvider(provider metric.MeterProvider) MetricsOption {
	return func(cfg *metricsConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// RegisterMetrics 把 pool 的运行状态注册为 OTel 可观测仪表：
//
//   - ckit.pool.workers：存活 worker 数
//   - ckit.pool.idle_workers：空闲 worker 数
//   - ckit.pool.pending_tasks：待执行任务数
//
// 所有数据点带 pool.name 属性。每个采集周期读取一次 [Pool.Stats] 快照。
// 返回的 Registration 用于停止导出；pool 关闭后继续导出是安全的
// （快照退化为全零）。
func RegisterMetrics(p *Pool, opts ...MetricsOption) (metric.Registration, error) {
	cfg := &metricsConfig{
		instrumentationName: defaultInstrumentationName,
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	meter := cfg.meterProvider.Meter(cfg.instrumentationName)

	workers, err := meter.Int64ObservableGauge(metricPoolWorkers,
		metric.WithDescription("Number of live workers in the pool"))
	if err != nil {
		return nil, fmt.Errorf("xthread: create gauge %s: %w", metricPoolWorkers, err)
	}
	idleWorkers, err := meter.Int64ObservableGauge(metricPoolIdleWorkers,
		metric.WithDescription("Number of workers blocked waiting for work"))
	if err != nil {
		return nil, fmt.Errorf("xthread: create gauge %s: %w", metricPoolIdleWorkers, err)
	}
	pendingTasks, err := meter.Int64ObservableGauge(metricPoolPendingTasks,
		metric.WithDescription("Number of queued tasks not yet executing"))
	if err != nil {
		return nil, fmt.Errorf("xthread: create gauge %s: %w", metricPoolPendingTasks, err)
	}

	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := p.Stats()
		attrs := metric.WithAttributes(attribute.String("pool.name", s.Options.Name))
		o.ObserveInt64(workers, int64(s.NumWorkers), attrs)
		o.ObserveInt64(idleWorkers, int64(s.NumIdleWorkers), attrs)
		o.ObserveInt64(pendingTasks, int64(s.NumPendingTasks), attrs)
		return nil
	}, workers, idleWorkers, pendingTasks)
	if err != nil {
		return nil, fmt.Errorf("xthread: register metrics callback: %w", err)
	}
	return reg, nil
}
