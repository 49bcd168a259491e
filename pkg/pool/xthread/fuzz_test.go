package xthread_test

import (
	"testing"
	"time"

	"github.com/omeyang/ckit/pkg/pool/xthread"
)

// FuzzOptionsValidate 验证 Validate 与 New 的 panic 行为一致：
// 校验通过的 Options 必须能构造 pool，校验失败的必须 panic。
func FuzzOptionsValidate(f *testing.F) {
	f.Add(0, 0, int64(0))
	f.Add(2, 8, int64(time.Second))
	f.Add(-1, 4, int64(0))
	f.Add(9, 3, int64(time.Minute))
	f.Add(0, -5, int64(-1))

	f.Fuzz(func(t *testing.T, minWorkers, maxWorkers int, age int64) {
		opts := xthread.Options{
			MinWorkers:       minWorkers,
			MaxWorkers:       maxWorkers,
			MaxIdleWorkerAge: time.Duration(age),
		}
		err := opts.Validate()

		defer func() {
			r := recover()
			if err == nil && r != nil {
				t.Fatalf("Validate passed but New panicked: %v", r)
			}
			if err != nil && r == nil {
				t.Fatalf("Validate failed (%v) but New did not panic", err)
			}
		}()
		p := xthread.New(opts)
		_ = p.Close()
	})
}

// FuzzLoadOptions 确认任意输入不会让 LoadOptions panic，
// 且解析成功的结果总能通过校验。
func FuzzLoadOptions(f *testing.F) {
	f.Add([]byte("name: fuzz\nmax_workers: 4\n"))
	f.Add([]byte("max_idle_worker_age: 10s\n"))
	f.Add([]byte("max_workers: -3\n"))
	f.Add([]byte("{"))
	f.Add([]byte(""))

	f.Fuzz(func(t *testing.T, data []byte) {
		opts, err := xthread.LoadOptions(data, xthread.FormatYAML)
		if err != nil {
			return
		}
		if vErr := opts.Validate(); vErr != nil {
			t.Fatalf("LoadOptions returned invalid Options: %v", vErr)
		}
	})
}
