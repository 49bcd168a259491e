// Package xexec 提供面向会话的任务执行器。
//
// 两种实现共享同一个 [Executor] 接口：
//   - [Synchronous]: 每个会话独占一个 worker goroutine 与私有 FIFO 队列，
//     适合任务之间有强顺序依赖、以会话为天然隔离边界的场景
//     （连接处理、按 key 串行化等）。
//   - [Pooled]: 把会话任务投到共享的 [xthread.Pool] 上执行，
//     适合大量短会话复用固定容量的场景。
//
// 会话内的续作（continuation）通过显式的 [Session] 句柄投递：
// [ModeDispatch] 追加到会话队列尾部，[ModeProcess] 在当前调用栈内联执行
// （超过内联深度上限后自动降级为 Dispatch，防止栈溢出）。
//
// # 注意事项
//
//   - [Session] 只能在其所属 worker goroutine 内使用，不可跨 goroutine 传递。
//   - Shutdown 只能等待，无法中断正在执行的任务；ctx 到期返回
//     [ErrExceededTimeLimit]，此时残余 worker 仍会自然结束。
//   - 执行器不会吞掉任务 panic，由调用方保证任务自身的恢复策略。
package xexec
