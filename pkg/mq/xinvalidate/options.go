package xinvalidate

import "log/slog"

// DefaultChannel 是失效广播的默认 Redis 频道。
// 跨语言消费方依赖这个频道名，不可随意变更。
const DefaultChannel = "cache:invalidation"

// options 保存发布器与订阅器的共享配置。
type options struct {
	channel string
	logger  *slog.Logger
}

// defaultOptions 返回默认配置。
func defaultOptions() options {
	return options{
		channel: DefaultChannel,
		logger:  slog.Default(),
	}
}

// Option 配置发布器或订阅器。
type Option func(*options)

// WithChannel 设置广播频道。空字符串会在构造时报错。
func WithChannel(channel string) Option {
	return func(o *options) {
		o.channel = channel
	}
}

// WithLogger 设置日志记录器。传入 nil 使用 slog.Default()。
// 如需禁用日志，可传入 slog.New(slog.NewTextHandler(io.Discard, nil))。
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// validate 校验配置。
func (o *options) validate() error {
	if o.channel == "" {
		return ErrEmptyChannel
	}
	return nil
}
