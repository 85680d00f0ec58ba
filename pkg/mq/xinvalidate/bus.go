package xinvalidate

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Bus 抽象失效消息的传输通道。
//
// 生产环境使用 Redis Pub/Sub 实现（NewRedisBus），
// 测试中可注入内存实现以精确控制消息投递时序。
type Bus interface {
	// Publish 向频道发布一条消息。
	Publish(ctx context.Context, channel string, payload []byte) error

	// Subscribe 订阅频道并为每条消息调用 handler。
	// 返回的 stop 函数停止订阅并等待处理 goroutine 退出。
	// Subscribe 在订阅确认后才返回，保证返回时不再丢失消息。
	Subscribe(ctx context.Context, channel string, handler func(payload []byte)) (stop func(), err error)
}

// ==========================================
// Redis Pub/Sub 实现
// ==========================================

type redisBus struct {
	client redis.UniversalClient
}

// NewRedisBus 基于 Redis Pub/Sub 创建消息总线。
// 客户端由调用方管理生命周期，本实现不负责关闭。
func NewRedisBus(client redis.UniversalClient) (Bus, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	return &redisBus{client: client}, nil
}

func (b *redisBus) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := b.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("xinvalidate: publish to %q: %w", channel, err)
	}
	return nil
}

func (b *redisBus) Subscribe(ctx context.Context, channel string, handler func(payload []byte)) (func(), error) {
	ps := b.client.Subscribe(ctx, channel)

	// 等待订阅确认，确保返回后发布的消息不会丢失
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("xinvalidate: subscribe to %q: %w", channel, err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// ps.Close() 会关闭该 channel，goroutine 随之退出
		for msg := range ps.Channel() {
			handler([]byte(msg.Payload))
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			_ = ps.Close()
			wg.Wait()
		})
	}
	return stop, nil
}
