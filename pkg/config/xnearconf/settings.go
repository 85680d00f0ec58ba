package xnearconf

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/omeyang/xnear/pkg/cache/xnearcache"
	"github.com/omeyang/xnear/pkg/mq/xinvalidate"
)

// Settings 是近端缓存的全量文件配置。
type Settings struct {
	// Channel 是失效广播的 Redis 频道。
	Channel string `koanf:"channel"`

	// Redis 是 L2 与广播总线共用的连接配置。
	Redis RedisSettings `koanf:"redis"`

	// Cache 是缓存本体配置（全局默认值 + 命名空间覆盖）。
	Cache xnearcache.Config `koanf:"cache"`
}

// RedisSettings 是 Redis 连接配置。
// 多个地址时使用集群客户端，单个地址时使用单机客户端。
type RedisSettings struct {
	Addrs        []string      `koanf:"addrs"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db"`
	PoolSize     int           `koanf:"poolSize"`
	DialTimeout  time.Duration `koanf:"dialTimeout"`
	ReadTimeout  time.Duration `koanf:"readTimeout"`
	WriteTimeout time.Duration `koanf:"writeTimeout"`
}

// DefaultSettings 返回默认配置。
func DefaultSettings() Settings {
	return Settings{
		Channel: xinvalidate.DefaultChannel,
		Redis: RedisSettings{
			Addrs: []string{"127.0.0.1:6379"},
		},
		Cache: xnearcache.DefaultConfig(),
	}
}

// Validate 校验配置。
func (s Settings) Validate() error {
	if s.Channel == "" {
		return fmt.Errorf("%w: channel must not be empty", xnearcache.ErrInvalidConfig)
	}
	if s.Cache.L2.Enabled && len(s.Redis.Addrs) == 0 {
		return fmt.Errorf("%w: redis addrs required when l2 is enabled", xnearcache.ErrInvalidConfig)
	}
	return s.Cache.Validate()
}

// NewRedisClient 按连接配置构造 Redis 客户端。
// 客户端的生命周期由调用方管理。
func (s RedisSettings) NewRedisClient() redis.UniversalClient {
	return redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        s.Addrs,
		Password:     s.Password,
		DB:           s.DB,
		PoolSize:     s.PoolSize,
		DialTimeout:  s.DialTimeout,
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
	})
}
