package xinvalidate

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Publisher 向共享频道广播缓存失效消息。
//
// 发布是尽力而为的：调用方应当记录错误后继续，而不是让缓存
// 操作因广播失败而失败。Publisher 本身是并发安全的。
type Publisher struct {
	bus        Bus
	instanceID string
	opts       options
}

// NewPublisher 基于 Redis 客户端创建发布器。
func NewPublisher(client redis.UniversalClient, instanceID string, opts ...Option) (*Publisher, error) {
	bus, err := NewRedisBus(client)
	if err != nil {
		return nil, err
	}
	return NewPublisherWithBus(bus, instanceID, opts...)
}

// NewPublisherWithBus 基于自定义消息总线创建发布器，主要用于测试。
func NewPublisherWithBus(bus Bus, instanceID string, opts ...Option) (*Publisher, error) {
	if bus == nil {
		return nil, ErrNilClient
	}
	if instanceID == "" {
		return nil, ErrEmptyInstanceID
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	return &Publisher{bus: bus, instanceID: instanceID, opts: o}, nil
}

// InstanceID 返回发布器绑定的实例 ID。
func (p *Publisher) InstanceID() string {
	return p.instanceID
}

// PublishEvict 广播单键失效消息。
func (p *Publisher) PublishEvict(ctx context.Context, cacheName, key string) error {
	if cacheName == "" {
		return ErrEmptyCacheName
	}
	return p.publish(ctx, NewEvict(p.instanceID, cacheName, key))
}

// PublishClear 广播命名空间清空消息。
func (p *Publisher) PublishClear(ctx context.Context, cacheName string) error {
	if cacheName == "" {
		return ErrEmptyCacheName
	}
	return p.publish(ctx, NewClear(p.instanceID, cacheName))
}

func (p *Publisher) publish(ctx context.Context, msg Message) error {
	payload, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("xinvalidate: encode message: %w", err)
	}
	if err := p.bus.Publish(ctx, p.opts.channel, payload); err != nil {
		return err
	}
	p.opts.logger.DebugContext(ctx, "xinvalidate: published",
		"messageId", msg.MessageID,
		"type", string(msg.Type),
		"cacheName", msg.CacheName,
		"cacheKey", msg.Key())
	return nil
}
