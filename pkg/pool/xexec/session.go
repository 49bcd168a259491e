package xexec

import "github.com/omeyang/ckit/internal/taskq"

// maxInlineDepth 是 ModeProcess 的内联执行深度上限，
// 超过后降级为 ModeDispatch，防止深递归续作打穿调用栈。
const maxInlineDepth = 8

// Session 是会话内投递续作的句柄。
//
// Session 归属于执行它的 worker goroutine，方法不做并发保护，
// 不可把句柄传给其他 goroutine 使用；跨会话投递走 [Executor.Schedule]。
type Session struct {
	id int64

	// queue 是 Synchronous 会话的私有队列，Pooled 会话为 nil。
	queue *taskq.Queue[Task]
	// dispatch 把任务交还给所属执行器：Synchronous 追加到 queue，
	// Pooled 重新投到共享 pool。
	dispatch func(Task)

	inlineDepth int
}

// ID 返回会话编号，同一执行器内单调递增。
func (s *Session) ID() int64 {
	return s.id
}

// Schedule 在本会话内投递续作。task 不得为 nil，否则 panic。
//
// ModeDispatch 追加到会话队列尾部；ModeProcess 内联执行，
// 深度超过上限后自动转为 ModeDispatch。
func (s *Session) Schedule(mode ScheduleMode, task Task) {
	if task == nil {
		panic("xexec: nil task")
	}
	if mode == ModeProcess && s.inlineDepth < maxInlineDepth {
		s.inlineDepth++
		task(s)
		s.inlineDepth--
		return
	}
	s.dispatch(task)
}
