package xremote

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// NewRedis 创建 Redis L2 缓存实例。
// client 必须是已初始化的 redis.UniversalClient。
func NewRedis(client redis.UniversalClient, opts ...Option) (Remote, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	r := &redisRemote{
		client:  client,
		options: options,
	}

	if options.EnableBreaker {
		r.breaker = newBreaker(options)
	}

	return r, nil
}

// =============================================================================
// Redis 实现
// =============================================================================

// redisRemote 实现 Remote 接口。
type redisRemote struct {
	client  redis.UniversalClient
	options *Options
	breaker *gobreaker.CircuitBreaker[any]
	closed  atomic.Bool
}

var _ Remote = (*redisRemote)(nil)

func (r *redisRemote) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := r.execute(func() (any, error) {
		value, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return value, err
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (r *redisRemote) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	// go-redis 将 ttl == 0 解释为不设置过期时间，与 Remote 契约一致
	_, err := r.execute(func() (any, error) {
		return nil, r.client.Set(ctx, key, value, ttl).Err()
	})
	return err
}

func (r *redisRemote) Delete(ctx context.Context, key string) error {
	_, err := r.execute(func() (any, error) {
		return nil, r.client.Del(ctx, key).Err()
	})
	return err
}

func (r *redisRemote) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	if prefix == "" {
		return 0, ErrEmptyPrefix
	}

	result, err := r.execute(func() (any, error) {
		return r.deleteByPrefix(ctx, prefix)
	})
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

// deleteByPrefix 以 SCAN + DEL 增量删除匹配前缀的所有 key。
func (r *redisRemote) deleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	pattern := prefix + "*"

	var deleted int64
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, r.options.ScanCount).Result()
		if err != nil {
			return deleted, err
		}

		if len(keys) > 0 {
			n, err := r.client.Del(ctx, keys...).Result()
			deleted += n
			if err != nil {
				return deleted, err
			}
		}

		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

func (r *redisRemote) Client() redis.UniversalClient {
	return r.client
}

func (r *redisRemote) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	if r.options.OwnedClient {
		return r.client.Close()
	}
	return nil
}

// execute 执行一次 L2 操作，必要时经过熔断器。
func (r *redisRemote) execute(fn func() (any, error)) (any, error) {
	if r.closed.Load() {
		return nil, ErrClosed
	}
	if r.breaker == nil {
		return fn()
	}
	return r.breaker.Execute(fn)
}

// =============================================================================
// 熔断器
// =============================================================================

// newBreaker 按配置创建熔断器。
func newBreaker(options *Options) *gobreaker.CircuitBreaker[any] {
	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "xremote",
		MaxRequests: 1, // 半开状态只放行一个试探请求
		Timeout:     options.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= options.BreakerTripAfter
		},
		IsSuccessful: func(err error) bool {
			// 未命中与调用方取消不是后端故障，不计入失败
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if options.Logger != nil {
				options.Logger.Warn("xremote: breaker state changed",
					"name", name, "from", from.String(), "to", to.String())
			}
		},
	})
}
