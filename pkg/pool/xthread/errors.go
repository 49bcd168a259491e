package xthread

import "errors"

var (
	// ErrShutdownInProgress 表示 pool 正在关闭。
	// 关闭后提交的任务会以此错误被短路调用，任务应只做清理。
	ErrShutdownInProgress = errors.New("xthread: shutdown in progress")

	// ErrInvalidMaxWorkers 表示 MaxWorkers 小于 1。
	ErrInvalidMaxWorkers = errors.New("xthread: max workers must be at least 1")

	// ErrInvalidMinWorkers 表示 MinWorkers 为负数。
	ErrInvalidMinWorkers = errors.New("xthread: min workers must not be negative")

	// ErrMinExceedsMax 表示 MinWorkers 大于 MaxWorkers。
	ErrMinExceedsMax = errors.New("xthread: min workers exceeds max workers")

	// ErrInvalidIdleAge 表示 MaxIdleWorkerAge 为负数。
	ErrInvalidIdleAge = errors.New("xthread: max idle worker age must not be negative")

	// ErrUnsupportedFormat 表示配置格式不受支持。
	ErrUnsupportedFormat = errors.New("xthread: unsupported config format")

	// ErrLoadFailed 表示配置数据解析失败。
	ErrLoadFailed = errors.New("xthread: load options failed")
)
