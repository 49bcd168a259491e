package xexec

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain 在所有测试完成后检测 goroutine 泄漏。
// 会话 worker 与 Shutdown 的等待 goroutine 都必须随关闭结束。
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
