package xlocal

import "errors"

var (
	// ErrInvalidMaxEntries 表示最大条目数无效（必须大于 0）。
	ErrInvalidMaxEntries = errors.New("xlocal: max entries must be positive")

	// ErrInvalidTTL 表示过期时间无效（不允许负值）。
	ErrInvalidTTL = errors.New("xlocal: ttl must not be negative")

	// ErrClosed 表示缓存已关闭。
	ErrClosed = errors.New("xlocal: closed")
)
