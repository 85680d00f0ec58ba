package xremote

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// =============================================================================
// Remote 接口定义
// =============================================================================

// Remote 定义两级缓存对 L2（共享缓存）的能力要求。
//
// L2 是跨实例的权威状态：所有实例通过同一个 L2 收敛。
// 每个操作都可能发生网络往返，错误按原样返回，不在本层吞掉。
type Remote interface {
	// Get 查询 key。key 不存在时返回 ErrNotFound。
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入 key。ttl > 0 时设置过期时间，ttl == 0 表示永不过期。
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete 删除 key。key 不存在时不视为错误。
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix 删除所有匹配前缀的 key，返回删除数量。
	// 基于 SCAN 增量遍历，不阻塞 Redis 服务端，但耗时与命名空间规模成正比。
	// 前缀为空时返回 ErrEmptyPrefix。
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)

	// Client 返回底层的 redis.UniversalClient。
	Client() redis.UniversalClient

	// Close 关闭实例。仅当通过 WithOwnedClient(true) 声明持有客户端时
	// 才会关闭底层连接，否则客户端生命周期由调用方管理。
	Close() error
}
