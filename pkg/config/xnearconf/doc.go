// Package xnearconf 加载近端缓存的文件配置。
//
// 基于 koanf 解析 YAML/JSON，把配置树反序列化为类型化的 Settings
// （全局默认值 + 命名空间覆盖 + Redis 连接 + 广播频道），时长字段
// 支持 "10m"、"1h" 等人类可读格式。可选地通过 fsnotify 监视文件
// 变更并自动重载。
//
// 配置文件示例（YAML）：
//
//	channel: "cache:invalidation"
//	redis:
//	  addrs: ["127.0.0.1:6379"]
//	cache:
//	  keyPrefix: "near-cache:"
//	  l1:
//	    enabled: true
//	    maxEntries: 10000
//	    expireAfterWrite: 10m
//	  l2:
//	    enabled: true
//	    ttl: 1h
//	  caches:
//	    users:
//	      l2TTL: 5m
//
// 注意：缓存实例在创建时解析一次配置，之后不再读取（见 xnearcache）。
// 重载只影响之后新建的命名空间，已存在的实例不受影响。
package xnearconf
