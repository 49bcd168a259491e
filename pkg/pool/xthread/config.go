package xthread

import (
	"fmt"
	"time"

	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 表示配置数据格式。
type Format string

const (
	// FormatYAML 表示 YAML 格式。
	FormatYAML Format = "yaml"
	// FormatJSON 表示 JSON 格式。
	FormatJSON Format = "json"
)

// optionsConfig 是配置数据的反序列化中间结构。
// max_idle_worker_age 接受 Go duration 字符串（如 "30s"、"500ms"）。
type optionsConfig struct {
	Name             string `koanf:"name"`
	WorkerNamePrefix string `koanf:"worker_name_prefix"`
	MinWorkers       int    `koanf:"min_workers"`
	MaxWorkers       int    `koanf:"max_workers"`
	MaxIdleWorkerAge string `koanf:"max_idle_worker_age"`
}

// LoadOptions 从配置字节数据解析 Options。
// 适用于从配置中心或 K8s ConfigMap 下发 pool 参数的场景。
//
// 与 New 的 panic 口径不同，配置字节是环境输入：解析失败和取值越界
// 都作为错误返回（[ErrLoadFailed]、[ErrUnsupportedFormat] 或校验错误）。
// 未出现的字段保持零值，由 New 按 [Options] 文档补全默认值。
func LoadOptions(data []byte, format Format) (Options, error) {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = kyaml.Parser()
	case FormatJSON:
		parser = kjson.Parser()
	default:
		return Options{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return Options{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	var raw optionsConfig
	if err := k.Unmarshal("", &raw); err != nil {
		return Options{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	var age time.Duration
	if raw.MaxIdleWorkerAge != "" {
		var err error
		age, err = time.ParseDuration(raw.MaxIdleWorkerAge)
		if err != nil {
			return Options{}, fmt.Errorf("%w: invalid max_idle_worker_age: %w", ErrLoadFailed, err)
		}
	}

	opts := Options{
		Name:             raw.Name,
		WorkerNamePrefix: raw.WorkerNamePrefix,
		MinWorkers:       raw.MinWorkers,
		MaxWorkers:       raw.MaxWorkers,
		MaxIdleWorkerAge: age,
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
