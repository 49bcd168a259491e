package xthread

import "strconv"

// lifecycleState 是 Pool 的生命周期状态。
// 单一权威字段，所有迁移都在 monitor 锁内完成。
type lifecycleState int

const (
	// statePreStart 表示已构造未启动。Schedule 可入队但没有 worker 运行。
	statePreStart lifecycleState = iota
	// stateRunning 表示正常运行。
	stateRunning
	// stateJoinRequired 表示已请求关闭，等待 Join。
	stateJoinRequired
	// stateJoining 表示 Join 正在排空队列并等待 worker 退出。
	stateJoining
	// stateShutdownComplete 表示关闭完成。
	stateShutdownComplete
)

// String 返回状态的可读字符串表示，用于日志和 panic 消息。
func (s lifecycleState) String() string {
	switch s {
	case statePreStart:
		return "PreStart"
	case stateRunning:
		return "Running"
	case stateJoinRequired:
		return "JoinRequired"
	case stateJoining:
		return "Joining"
	case stateShutdownComplete:
		return "ShutdownComplete"
	default:
		return "lifecycleState(" + strconv.Itoa(int(s)) + ")"
	}
}
