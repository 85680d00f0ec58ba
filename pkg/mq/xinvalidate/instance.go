package xinvalidate

import (
	"os"

	"github.com/google/uuid"
)

// NewInstanceID 生成本进程的实例 ID。
//
// 格式为 "<hostname>-<uuid>"。主机名部分便于在日志里定位消息来源，
// UUID 部分保证同一台主机上的多个进程互不冲突。
// 获取主机名失败时退化为纯 UUID。
func NewInstanceID() string {
	id := uuid.NewString()
	host, err := os.Hostname()
	if err != nil || host == "" {
		return id
	}
	return host + "-" + id
}
