// Package xthread 提供有界弹性 worker pool 实现。
//
// Pool 在一组数量受限、按需伸缩的 worker goroutine 上异步执行任务。
// 支持以下特性：
//   - 按需增长：队列深度超过空闲 worker 数时自动扩容，上限 MaxWorkers
//   - 空闲回收：worker 空闲超过 MaxIdleWorkerAge 后自愿退出，下限 MinWorkers；
//     回收基于池级时间戳错峰进行，同一窗口内最多退出一个 worker
//   - 严格 FIFO：单一提交方视角下任务按入队顺序执行
//   - 显式生命周期：Startup → Schedule → Shutdown → Join，
//     或直接 Close（等价于 Shutdown + Join，满足 io.Closer）
//   - 关闭排空：Shutdown 后 Join 会把已入队任务全部执行完再返回
//   - 恰好一次调用：每个任务保证被调用且只被调用一次；关闭后提交的任务
//     以 [ErrShutdownInProgress] 短路调用，任务应只做清理不做实际工作
//   - WaitForIdle 静默屏障：阻塞到队列为空且所有 worker 空闲
//   - Stats 快照、OTel 指标导出（RegisterMetrics）
//   - 可注入自定义日志记录器（WithLogger）
//   - 任务 panic 恢复（单个任务失败不影响 pool）
//
// # 注意事项
//
//   - Schedule 永不失败：要么入队，要么立即以 [ErrShutdownInProgress]
//     调用任务。调用方据此可以把资源清理统一放进任务体
//   - 队列无界，背压由调用方负责
//   - 任务级别没有取消；唯一的取消面是整池 Shutdown
//   - 生命周期方法乱序调用（重复 Startup、重复 Join、并发 Close 与 Join）
//     是编程错误，直接 panic 而非返回错误
//
// # 错误处理策略
//
// 设计决策: 错误分三类处理，口径与错误的性质对齐：
//   - 编程错误（非法配置、生命周期乱序、内部不变量被破坏）：panic。
//     带病继续运行会静默破坏 pool 的簿记，快速失败是唯一安全选择
//   - 环境错误（worker 创建回调失败）：吸收并记录日志，pool 以现有容量
//     继续运行；下一次任务到达会再次尝试扩容
//   - 调用方可见信号：仅 [ErrShutdownInProgress]（随任务调用传入）一种
package xthread
