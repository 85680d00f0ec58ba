package xremote

import "errors"

var (
	// ErrNilClient 表示传入的 Redis 客户端为 nil。
	ErrNilClient = errors.New("xremote: nil client")

	// ErrNotFound 表示 key 不存在。
	ErrNotFound = errors.New("xremote: key not found")

	// ErrEmptyPrefix 表示按前缀删除时前缀为空。
	// 空前缀会匹配整个 key 空间，几乎总是使用错误，应在入口处 fail-fast。
	ErrEmptyPrefix = errors.New("xremote: empty prefix")

	// ErrClosed 表示实例已关闭。
	ErrClosed = errors.New("xremote: closed")
)
