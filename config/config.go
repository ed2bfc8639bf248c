// Package config 提供了模拟引擎的配置加载、校验与热更新能力.
package config

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config 全局顶级配置结构.
type Config struct {
	Version string        `mapstructure:"version" toml:"version"`
	Log     LogConfig     `mapstructure:"log"     toml:"log"`
	Engine  EngineConfig  `mapstructure:"engine"  toml:"engine"`
	Metrics MetricsConfig `mapstructure:"metrics" toml:"metrics"`
}

// LogConfig 日志输出配置.
type LogConfig struct {
	Level      string `mapstructure:"level"       toml:"level"       validate:"oneof=debug info warn error"`
	File       string `mapstructure:"file"        toml:"file"`
	MaxSize    int    `mapstructure:"max_size"    toml:"max_size"    validate:"gte=0"` // MB
	MaxBackups int    `mapstructure:"max_backups" toml:"max_backups" validate:"gte=0"`
	MaxAge     int    `mapstructure:"max_age"     toml:"max_age"     validate:"gte=0"` // days
	Compress   bool   `mapstructure:"compress"    toml:"compress"`
}

// EngineConfig 模拟引擎的默认运行参数.
type EngineConfig struct {
	// Workers 并行生成路径的最大工作协程数，0 表示使用 GOMAXPROCS。
	Workers int `mapstructure:"workers" toml:"workers" validate:"gte=0"`
	// SerialThreshold 独立路径数低于该阈值时退化为单协程执行，避免调度开销。
	SerialThreshold int `mapstructure:"serial_threshold" toml:"serial_threshold" validate:"gte=0"`
	// DefaultPaths 未显式指定时的默认路径条数。
	DefaultPaths int `mapstructure:"default_paths" toml:"default_paths" validate:"gte=1"`
	// DefaultSeed 未显式指定时的默认随机种子。
	DefaultSeed uint64 `mapstructure:"default_seed" toml:"default_seed"`
	// Antithetic 默认是否启用对偶变量。
	Antithetic bool `mapstructure:"antithetic" toml:"antithetic"`
}

// MetricsConfig 指标暴露配置.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
	Addr    string `mapstructure:"addr"    toml:"addr"`
}

var validate = validator.New()

// setDefaults 写入各配置项的出厂默认值。
func setDefaults(v *viper.Viper) {
	v.SetDefault("version", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 7)
	v.SetDefault("log.compress", true)
	v.SetDefault("engine.workers", 0)
	v.SetDefault("engine.serial_threshold", 64)
	v.SetDefault("engine.default_paths", 10000)
	v.SetDefault("engine.default_seed", 1)
	v.SetDefault("engine.antithetic", false)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9090")
}

// Load 从给定路径加载配置文件；path 为空或文件不存在时返回默认配置。
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Watcher 监听配置文件变化并在每次有效变更后回调最新配置。
type Watcher struct {
	v  *viper.Viper
	mu sync.RWMutex

	current *Config
}

// NewWatcher 加载配置并开启 fsnotify 热更新。
// 变更后的配置未通过校验时保留旧配置，仅记录告警。
func NewWatcher(path string, onChange func(*Config)) (*Watcher, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	w := &Watcher{v: v}
	cfg, err := w.reload()
	if err != nil {
		return nil, err
	}
	w.current = cfg

	v.OnConfigChange(func(e fsnotify.Event) {
		next, err := w.reload()
		if err != nil {
			slog.Warn("config reload rejected", "file", e.Name, "error", err)
			return
		}
		w.mu.Lock()
		w.current = next
		w.mu.Unlock()
		slog.Info("config reloaded", "file", e.Name)
		if onChange != nil {
			onChange(next)
		}
	})
	v.WatchConfig()
	return w, nil
}

func (w *Watcher) reload() (*Config, error) {
	cfg := &Config{}
	if err := w.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Current 返回最近一次通过校验的配置。
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}
