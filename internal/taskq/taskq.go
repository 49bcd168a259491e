package taskq

import "github.com/eapache/queue"

// Queue 是类型化的 FIFO 队列。
// 非并发安全：调用方需自行持锁，或保证单 goroutine 访问。
type Queue[T any] struct {
	q *queue.Queue
}

// New 创建空队列。
func New[T any]() *Queue[T] {
	return &Queue[T]{q: queue.New()}
}

// Push 将元素追加到队尾。
func (q *Queue[T]) Push(v T) {
	q.q.Add(v)
}

// Pop 移除并返回队首元素。
// 空队列调用 Pop 会 panic，调用方必须先用 Empty/Len 检查。
func (q *Queue[T]) Pop() T {
	return q.q.Remove().(T)
}

// Peek 返回队首元素但不移除。
// 空队列调用 Peek 会 panic。
func (q *Queue[T]) Peek() T {
	return q.q.Peek().(T)
}

// Len 返回队列长度。
func (q *Queue[T]) Len() int {
	return q.q.Length()
}

// Empty 报告队列是否为空。
func (q *Queue[T]) Empty() bool {
	return q.q.Length() == 0
}
