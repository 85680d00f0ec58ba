package xinvalidate

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

// Router 将收到的失效消息路由到本地缓存。
//
// 实现方只清理进程内的 L1 副本，绝不能再触碰共享的 L2 或
// 重新广播，否则会形成失效风暴。
type Router interface {
	// EvictLocalOnly 删除指定命名空间中单个键的本地副本。
	EvictLocalOnly(cacheName, key string)

	// ClearLocalOnly 清空指定命名空间的全部本地副本。
	ClearLocalOnly(cacheName string)
}

// Subscriber 订阅失效频道并把消息路由到本地缓存。
//
// 典型的接线顺序是先创建 Subscriber，再 AttachRouter，最后 Start。
// Router 挂载前收到的消息会被丢弃并记录日志。
type Subscriber struct {
	bus        Bus
	instanceID string
	opts       options

	mu     sync.RWMutex
	router Router

	started atomic.Bool
	closed  atomic.Bool
	stop    func()
}

// NewSubscriber 基于 Redis 客户端创建订阅器。
func NewSubscriber(client redis.UniversalClient, instanceID string, opts ...Option) (*Subscriber, error) {
	bus, err := NewRedisBus(client)
	if err != nil {
		return nil, err
	}
	return NewSubscriberWithBus(bus, instanceID, opts...)
}

// NewSubscriberWithBus 基于自定义消息总线创建订阅器，主要用于测试。
func NewSubscriberWithBus(bus Bus, instanceID string, opts ...Option) (*Subscriber, error) {
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

	return &Subscriber{bus: bus, instanceID: instanceID, opts: o}, nil
}

// AttachRouter 挂载消息路由目标。
// 可以在 Start 之后调用，替换之前挂载的 Router。
func (s *Subscriber) AttachRouter(r Router) {
	s.mu.Lock()
	s.router = r
	s.mu.Unlock()
}

// Start 开始订阅失效频道。重复调用返回 ErrAlreadyStarted。
// ctx 仅约束订阅建立过程，订阅建立后的生命周期由 Close 控制。
func (s *Subscriber) Start(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	stop, err := s.bus.Subscribe(ctx, s.opts.channel, s.handle)
	if err != nil {
		s.started.Store(false)
		return err
	}
	s.stop = stop

	s.opts.logger.InfoContext(ctx, "xinvalidate: subscribed",
		"channel", s.opts.channel,
		"instanceId", s.instanceID)
	return nil
}

// Close 停止订阅并等待处理 goroutine 退出。重复调用返回 ErrClosed。
func (s *Subscriber) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	if s.stop != nil {
		s.stop()
	}
	return nil
}

// handle 处理一条原始消息。
// 任何异常消息（解码失败、未知类型、缺少路由目标）都只记录日志
// 后丢弃，订阅循环不能因单条坏消息中断。
func (s *Subscriber) handle(payload []byte) {
	msg, err := Decode(payload)
	if err != nil {
		s.opts.logger.Warn("xinvalidate: discard undecodable message", "error", err)
		return
	}

	// 自回声抑制：忽略自己发出的消息
	if msg.IsFrom(s.instanceID) {
		return
	}

	if !msg.Type.valid() {
		s.opts.logger.Warn("xinvalidate: discard message with unknown type",
			"messageId", msg.MessageID, "type", string(msg.Type))
		return
	}

	s.mu.RLock()
	router := s.router
	s.mu.RUnlock()
	if router == nil {
		s.opts.logger.Warn("xinvalidate: discard message, no router attached",
			"messageId", msg.MessageID)
		return
	}

	switch msg.Type {
	case TypeEvict:
		if msg.CacheKey == nil {
			s.opts.logger.Warn("xinvalidate: discard EVICT without cacheKey",
				"messageId", msg.MessageID, "cacheName", msg.CacheName)
			return
		}
		router.EvictLocalOnly(msg.CacheName, *msg.CacheKey)
	case TypeClear:
		router.ClearLocalOnly(msg.CacheName)
	}

	s.opts.logger.Debug("xinvalidate: applied",
		"messageId", msg.MessageID,
		"type", string(msg.Type),
		"cacheName", msg.CacheName,
		"source", msg.SourceInstanceID)
}
