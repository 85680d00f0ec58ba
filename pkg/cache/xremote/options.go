package xremote

import (
	"log/slog"
	"time"
)

// =============================================================================
// 配置选项
// =============================================================================

// Options 定义 Remote 的配置选项。
type Options struct {
	// ScanCount SCAN 命令每次迭代的 COUNT 提示值。
	// 默认为 100。
	ScanCount int64

	// EnableBreaker 是否启用熔断保护。
	// 启用后连续失败达到 BreakerTripAfter 次时熔断打开，
	// 打开期间所有操作立即失败，经过 BreakerTimeout 后进入半开试探。
	// 默认为 false。
	EnableBreaker bool

	// BreakerTripAfter 触发熔断的连续失败次数。
	// 默认为 5。
	BreakerTripAfter uint32

	// BreakerTimeout 熔断打开到半开的恢复等待时间。
	// 默认为 30s。
	BreakerTimeout time.Duration

	// Logger 用于记录熔断状态变更。
	// 默认使用 slog.Default()，传入 nil 禁用日志。
	Logger *slog.Logger

	// OwnedClient 标记客户端由本实例持有，Close 时一并关闭。
	// 默认为 false：客户端通常与发布/订阅总线共享，由调用方统一管理。
	OwnedClient bool
}

// Option 定义配置 Remote 的函数类型。
type Option func(*Options)

// defaultOptions 返回默认配置。
func defaultOptions() *Options {
	return &Options{
		ScanCount:        100,
		EnableBreaker:    false,
		BreakerTripAfter: 5,
		BreakerTimeout:   30 * time.Second,
		Logger:           slog.Default(),
	}
}

// WithScanCount 设置 SCAN 的 COUNT 提示值。
// 如果 n <= 0，将忽略此设置并使用默认值。
func WithScanCount(n int64) Option {
	return func(o *Options) {
		if n > 0 {
			o.ScanCount = n
		}
	}
}

// WithBreaker 设置是否启用熔断保护。
func WithBreaker(enable bool) Option {
	return func(o *Options) {
		o.EnableBreaker = enable
	}
}

// WithBreakerTripAfter 设置触发熔断的连续失败次数。
// 如果 n == 0，将忽略此设置并使用默认值。
func WithBreakerTripAfter(n uint32) Option {
	return func(o *Options) {
		if n > 0 {
			o.BreakerTripAfter = n
		}
	}
}

// WithBreakerTimeout 设置熔断恢复等待时间。
// 如果 d <= 0，将忽略此设置并使用默认值。
func WithBreakerTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.BreakerTimeout = d
		}
	}
}

// WithLogger 设置自定义 Logger。
// 传入 nil 将禁用日志输出。
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithOwnedClient 标记客户端由本实例持有。
func WithOwnedClient(owned bool) Option {
	return func(o *Options) {
		o.OwnedClient = owned
	}
}
