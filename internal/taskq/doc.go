// Package taskq 提供基于环形缓冲区的类型化 FIFO 队列。
//
// 本包是 internal 包，仅供 pool 族包（xthread、xexec）内部使用，
// 外部用户不应直接导入此包。
//
// 依赖策略: 底层复用 eapache/queue 的环形缓冲区实现（自动扩缩容，
// 均摊 O(1) 的入队/出队），本包只负责补上泛型类型安全层。
//
// Queue 本身不做并发保护：pool 族的所有队列访问都发生在各自的
// monitor 锁或会话 goroutine 内，在这里再加一把锁只会重复加锁。
package taskq
