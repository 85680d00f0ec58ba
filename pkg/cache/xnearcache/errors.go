package xnearcache

import "errors"

var (
	// ErrNilRemote 表示 L2 已启用但未提供 Remote 实例。
	ErrNilRemote = errors.New("xnearcache: remote store is nil")

	// ErrNilLoader 表示传入的回源函数为 nil。
	ErrNilLoader = errors.New("xnearcache: loader is nil")

	// ErrInvalidName 表示缓存命名空间名称非法。
	ErrInvalidName = errors.New("xnearcache: invalid cache name")

	// ErrInvalidConfig 表示配置非法。
	ErrInvalidConfig = errors.New("xnearcache: invalid config")

	// ErrNullValueDisabled 表示在关闭空值缓存时写入了 nil 值。
	// 这是调用方可见的配置契约错误，两级缓存都不会被触碰。
	ErrNullValueDisabled = errors.New("xnearcache: null value caching is disabled")

	// ErrLoadFailed 表示回源函数执行失败。
	// 这是 fail-open 策略的唯一例外之一，必须冒泡给调用方。
	ErrLoadFailed = errors.New("xnearcache: loader failed")

	// ErrClosed 表示注册表已关闭。
	ErrClosed = errors.New("xnearcache: closed")
)
