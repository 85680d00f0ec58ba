package xlocal

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// expirable LRU 的 TTL 清理 goroutine 在 v2.0.7 中无法关闭
		// （上游注明将在后续版本补充关闭能力），见 NewLRU 的说明
		goleak.IgnoreTopFunction("github.com/hashicorp/golang-lru/v2/expirable.NewLRU[...].func1"),
	)
}
