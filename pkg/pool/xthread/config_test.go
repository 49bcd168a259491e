package xthread

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptions_YAML(t *testing.T) {
	data := []byte(`
name: conn-pool
worker_name_prefix: conn-
min_workers: 2
max_workers: 16
max_idle_worker_age: 45s
`)
	opts, err := LoadOptions(data, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "conn-pool", opts.Name)
	assert.Equal(t, "conn-", opts.WorkerNamePrefix)
	assert.Equal(t, 2, opts.MinWorkers)
	assert.Equal(t, 16, opts.MaxWorkers)
	assert.Equal(t, 45*time.Second, opts.MaxIdleWorkerAge)
}

func TestLoadOptions_JSON(t *testing.T) {
	data := []byte(`{
		"name": "repl-pool",
		"min_workers": 1,
		"max_workers": 4,
		"max_idle_worker_age": "500ms"
	}`)
	opts, err := LoadOptions(data, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "repl-pool", opts.Name)
	assert.Equal(t, 1, opts.MinWorkers)
	assert.Equal(t, 4, opts.MaxWorkers)
	assert.Equal(t, 500*time.Millisecond, opts.MaxIdleWorkerAge)
}

func TestLoadOptions_PartialFields(t *testing.T) {
	// 缺省字段保持零值，由 New 统一补全默认值
	opts, err := LoadOptions([]byte(`max_workers: 3`), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "", opts.Name)
	assert.Equal(t, 0, opts.MinWorkers)
	assert.Equal(t, 3, opts.MaxWorkers)
	assert.Equal(t, time.Duration(0), opts.MaxIdleWorkerAge)

	p := New(opts)
	defer func() { _ = p.Close() }()
	assert.Equal(t, 3, p.Stats().Options.MaxWorkers)
	assert.Equal(t, defaultMaxIdleWorkerAge, p.Stats().Options.MaxIdleWorkerAge)
}

func TestLoadOptions_EmptyData(t *testing.T) {
	opts, err := LoadOptions(nil, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Options{}, opts)
}

func TestLoadOptions_UnsupportedFormat(t *testing.T) {
	_, err := LoadOptions([]byte(`{}`), Format("toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadOptions_MalformedData(t *testing.T) {
	_, err := LoadOptions([]byte(`{not json`), FormatJSON)
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestLoadOptions_BadDuration(t *testing.T) {
	_, err := LoadOptions([]byte(`max_idle_worker_age: fast`), FormatYAML)
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestLoadOptions_InvalidValues(t *testing.T) {
	// 环境输入的越界值返回错误，而不是像 New 一样 panic
	_, err := LoadOptions([]byte(`{"min_workers": 9, "max_workers": 3}`), FormatJSON)
	assert.ErrorIs(t, err, ErrMinExceedsMax)

	_, err = LoadOptions([]byte(`{"max_workers": -2}`), FormatJSON)
	assert.ErrorIs(t, err, ErrInvalidMaxWorkers)

	_, err = LoadOptions([]byte(`{"min_workers": -1, "max_workers": 3}`), FormatJSON)
	assert.ErrorIs(t, err, ErrInvalidMinWorkers)
}
