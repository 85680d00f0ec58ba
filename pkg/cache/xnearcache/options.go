package xnearcache

import (
	"log/slog"
	"time"

	"github.com/omeyang/xnear/pkg/cache/xlocal"
)

// RecommendedLoadTimeout 推荐的回源超时时间。
// 使用 singleflight 时建议设置此超时，避免 goroutine 泄漏。
const RecommendedLoadTimeout = 30 * time.Second

// LocalFactory 按命名空间配置构造 L1 实例。
type LocalFactory func(cfg xlocal.Config) (xlocal.Local, error)

// Options 定义 Registry 的配置选项。
type Options struct {
	// Logger 用于记录 L2 与广播故障。
	// 默认使用 slog.Default()。
	Logger *slog.Logger

	// Publisher 是失效广播的发布端。
	// 默认为 nil，不广播（单实例部署不需要总线）。
	Publisher InvalidationPublisher

	// LocalFactory 构造 L1 实例。
	// 默认使用 xlocal.NewRistretto。测试中可替换为同步的
	// xlocal.NewLRU 以获得确定性行为。
	LocalFactory LocalFactory

	// PublishOnPut 控制 Put 是否广播失效消息。
	//
	// 默认为 false：写路径只更新本实例的两级缓存，其他实例的
	// L1 依赖各自的过期时间收敛。开启后每次 Put 额外广播一条
	// EVICT，把陈旧窗口压缩到总线投递延迟，代价是写放大。
	PublishOnPut bool

	// LoadTimeout 单次回源的超时时间。
	//   - > 0: 使用指定超时
	//   - == 0: 禁用超时（需确保 loader 不会无限阻塞）
	//   - < 0: 使用 RecommendedLoadTimeout (30s)
	LoadTimeout time.Duration
}

// Option 定义配置 Registry 的函数类型。
type Option func(*Options)

// defaultOptions 返回默认配置。
func defaultOptions() *Options {
	return &Options{
		Logger: slog.Default(),
		LocalFactory: func(cfg xlocal.Config) (xlocal.Local, error) {
			return xlocal.NewRistretto(cfg)
		},
		LoadTimeout: RecommendedLoadTimeout,
	}
}

// WithLogger 设置自定义 Logger。
// 传入 nil 将禁用日志输出。
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithPublisher 设置失效广播的发布端。
func WithPublisher(pub InvalidationPublisher) Option {
	return func(o *Options) {
		o.Publisher = pub
	}
}

// WithLocalFactory 设置 L1 构造器。
func WithLocalFactory(factory LocalFactory) Option {
	return func(o *Options) {
		if factory != nil {
			o.LocalFactory = factory
		}
	}
}

// WithPublishOnPut 设置 Put 是否广播失效消息。
func WithPublishOnPut(enable bool) Option {
	return func(o *Options) {
		o.PublishOnPut = enable
	}
}

// WithLoadTimeout 设置单次回源的超时时间。
func WithLoadTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.LoadTimeout = timeout
	}
}
