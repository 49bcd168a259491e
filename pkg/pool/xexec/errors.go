package xexec

import "errors"

var (
	// ErrNotStarted 表示在 Start 之前调用了 Schedule。
	ErrNotStarted = errors.New("xexec: executor not started")

	// ErrExecutorShutdown 表示执行器已进入关闭流程，不再接受新任务。
	ErrExecutorShutdown = errors.New("xexec: executor shutdown")

	// ErrExceededTimeLimit 表示 Shutdown 在 ctx 到期前未能等到全部 worker 退出。
	// 关闭请求已经生效，残余 worker 会在任务结束后自然退出。
	ErrExceededTimeLimit = errors.New("xexec: exceeded time limit")
)
