package xnearcache

import (
	"fmt"
	"time"
)

// ==========================================
// 全局配置
// ==========================================

// DefaultKeyPrefix 是 L2 键的默认全局前缀。
// 完整的 L2 键格式为 "{KeyPrefix}{cacheName}:{key}"。
const DefaultKeyPrefix = "near-cache:"

const (
	defaultL1MaxEntries       = 10000
	defaultL1ExpireAfterWrite = 10 * time.Minute
	defaultL2TTL              = time.Hour
)

// Config 是近端缓存的全局配置。
// 字段带 koanf 标签，可由配置文件直接加载（见 xnearconf）。
type Config struct {
	// KeyPrefix 是 L2 键的全局前缀。
	KeyPrefix string `koanf:"keyPrefix"`

	// CacheNullValues 是否允许缓存空值（防穿透）。
	// 关闭时写入 nil 值返回 ErrNullValueDisabled。
	CacheNullValues bool `koanf:"cacheNullValues"`

	// L1 是本地缓存的默认配置。
	L1 L1Config `koanf:"l1"`

	// L2 是共享缓存的默认配置。
	L2 L2Config `koanf:"l2"`

	// Caches 是按命名空间的配置覆盖表。
	// 覆盖按字段生效：未设置的字段回落到全局默认值。
	Caches map[string]Override `koanf:"caches"`
}

// L1Config 是本地缓存（L1）的配置。
type L1Config struct {
	// Enabled 是否启用 L1。
	Enabled bool `koanf:"enabled"`

	// MaxEntries 是 L1 的最大条目数。
	MaxEntries int `koanf:"maxEntries"`

	// ExpireAfterWrite 是写入后过期时间，0 表示不过期。
	ExpireAfterWrite time.Duration `koanf:"expireAfterWrite"`

	// ExpireAfterAccess 是访问后过期时间，0 表示不启用。
	ExpireAfterAccess time.Duration `koanf:"expireAfterAccess"`
}

// L2Config 是共享缓存（L2）的配置。
type L2Config struct {
	// Enabled 是否启用 L2。
	Enabled bool `koanf:"enabled"`

	// TTL 是 L2 条目的过期时间，0 表示不过期。
	TTL time.Duration `koanf:"ttl"`
}

// Override 是单个命名空间的配置覆盖。
// 指针字段为 nil 表示未覆盖，使用全局默认值。
type Override struct {
	L1MaxEntries        *int           `koanf:"l1MaxEntries"`
	L1ExpireAfterWrite  *time.Duration `koanf:"l1ExpireAfterWrite"`
	L1ExpireAfterAccess *time.Duration `koanf:"l1ExpireAfterAccess"`
	L2TTL               *time.Duration `koanf:"l2TTL"`
}

// DefaultConfig 返回默认配置：两级均启用，
// L1 上限 10000 条、写入 10 分钟过期，L2 TTL 1 小时，不缓存空值。
func DefaultConfig() Config {
	return Config{
		KeyPrefix:       DefaultKeyPrefix,
		CacheNullValues: false,
		L1: L1Config{
			Enabled:          true,
			MaxEntries:       defaultL1MaxEntries,
			ExpireAfterWrite: defaultL1ExpireAfterWrite,
		},
		L2: L2Config{
			Enabled: true,
			TTL:     defaultL2TTL,
		},
	}
}

// Validate 校验全局配置。
func (c Config) Validate() error {
	if c.L1.Enabled && c.L1.MaxEntries <= 0 {
		return fmt.Errorf("%w: l1 maxEntries must be positive, got %d", ErrInvalidConfig, c.L1.MaxEntries)
	}
	if c.L1.ExpireAfterWrite < 0 || c.L1.ExpireAfterAccess < 0 {
		return fmt.Errorf("%w: l1 expiry must not be negative", ErrInvalidConfig)
	}
	if c.L2.TTL < 0 {
		return fmt.Errorf("%w: l2 ttl must not be negative", ErrInvalidConfig)
	}
	if c.L2.Enabled && c.KeyPrefix == "" {
		return fmt.Errorf("%w: keyPrefix must not be empty when l2 is enabled", ErrInvalidConfig)
	}
	for name, o := range c.Caches {
		if name == "" {
			return fmt.Errorf("%w: override with empty cache name", ErrInvalidConfig)
		}
		if o.L1MaxEntries != nil && *o.L1MaxEntries <= 0 {
			return fmt.Errorf("%w: cache %q l1MaxEntries must be positive", ErrInvalidConfig, name)
		}
		if (o.L1ExpireAfterWrite != nil && *o.L1ExpireAfterWrite < 0) ||
			(o.L1ExpireAfterAccess != nil && *o.L1ExpireAfterAccess < 0) ||
			(o.L2TTL != nil && *o.L2TTL < 0) {
			return fmt.Errorf("%w: cache %q durations must not be negative", ErrInvalidConfig, name)
		}
	}
	return nil
}

// ==========================================
// 命名空间级已解析配置
// ==========================================

// namespaceConfig 是合并覆盖后的单命名空间配置。
// 在缓存实例创建时解析一次，之后不再读取全局配置。
type namespaceConfig struct {
	name string

	l1Enabled           bool
	l1MaxEntries        int
	l1ExpireAfterWrite  time.Duration
	l1ExpireAfterAccess time.Duration

	l2Enabled bool
	l2TTL     time.Duration

	keyPrefix  string
	cacheNulls bool
}

// resolve 合并全局默认值与命名空间覆盖，按字段取值。
func (c Config) resolve(name string) namespaceConfig {
	nc := namespaceConfig{
		name:                name,
		l1Enabled:           c.L1.Enabled,
		l1MaxEntries:        c.L1.MaxEntries,
		l1ExpireAfterWrite:  c.L1.ExpireAfterWrite,
		l1ExpireAfterAccess: c.L1.ExpireAfterAccess,
		l2Enabled:           c.L2.Enabled,
		l2TTL:               c.L2.TTL,
		keyPrefix:           c.KeyPrefix,
		cacheNulls:          c.CacheNullValues,
	}

	o, ok := c.Caches[name]
	if !ok {
		return nc
	}
	if o.L1MaxEntries != nil {
		nc.l1MaxEntries = *o.L1MaxEntries
	}
	if o.L1ExpireAfterWrite != nil {
		nc.l1ExpireAfterWrite = *o.L1ExpireAfterWrite
	}
	if o.L1ExpireAfterAccess != nil {
		nc.l1ExpireAfterAccess = *o.L1ExpireAfterAccess
	}
	if o.L2TTL != nil {
		nc.l2TTL = *o.L2TTL
	}
	return nc
}

// remoteKey 返回某个缓存键在 L2 上的完整键名。
func (c namespaceConfig) remoteKey(key string) string {
	return c.keyPrefix + c.name + ":" + key
}

// remotePrefix 返回本命名空间在 L2 上的键前缀，用于前缀扫描删除。
func (c namespaceConfig) remotePrefix() string {
	return c.keyPrefix + c.name + ":"
}
