package xinvalidate

import "errors"

var (
	// ErrNilClient 表示传入的 Redis 客户端为 nil。
	ErrNilClient = errors.New("xinvalidate: redis client is nil")

	// ErrEmptyInstanceID 表示实例 ID 为空。
	// 没有实例 ID 就无法做自回声抑制。
	ErrEmptyInstanceID = errors.New("xinvalidate: instance id is empty")

	// ErrEmptyChannel 表示频道名为空。
	ErrEmptyChannel = errors.New("xinvalidate: channel is empty")

	// ErrEmptyCacheName 表示缓存命名空间为空。
	ErrEmptyCacheName = errors.New("xinvalidate: cache name is empty")

	// ErrAlreadyStarted 表示订阅器已经启动。
	ErrAlreadyStarted = errors.New("xinvalidate: subscriber already started")

	// ErrClosed 表示组件已关闭。
	ErrClosed = errors.New("xinvalidate: closed")
)
