package bench

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/omeyang/xnear/pkg/cache/xnearcache"
)

// Report 是一次压测的结果汇总。
type Report struct {
	Elapsed  time.Duration
	Reads    int64
	Writes   int64
	Misses   int64
	Failures int64

	// Throughput 每秒操作数。
	Throughput float64

	// P50/P95/P99/Max 操作延迟分位数。
	P50 time.Duration
	P95 time.Duration
	P99 time.Duration
	Max time.Duration

	// L1Stats 是压测结束时目标命名空间的 L1 统计。
	L1Stats xnearcache.Stats
}

type reportInput struct {
	elapsed  time.Duration
	reads    int64
	writes   int64
	misses   int64
	failures int64
	latency  []time.Duration
	stats    xnearcache.Stats
}

func newReport(in reportInput) *Report {
	r := &Report{
		Elapsed:  in.elapsed,
		Reads:    in.reads,
		Writes:   in.writes,
		Misses:   in.misses,
		Failures: in.failures,
		L1Stats:  in.stats,
	}

	total := in.reads + in.writes
	if in.elapsed > 0 {
		r.Throughput = float64(total) / in.elapsed.Seconds()
	}

	if len(in.latency) > 0 {
		sort.Slice(in.latency, func(i, j int) bool { return in.latency[i] < in.latency[j] })
		r.P50 = percentile(in.latency, 0.50)
		r.P95 = percentile(in.latency, 0.95)
		r.P99 = percentile(in.latency, 0.99)
		r.Max = in.latency[len(in.latency)-1]
	}
	return r
}

// percentile 返回已排序样本的 p 分位数。
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}

// String 渲染人类可读的报告。
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "elapsed      %v\n", r.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "throughput   %.0f ops/s\n", r.Throughput)
	fmt.Fprintf(&b, "reads        %d (misses: %d)\n", r.Reads, r.Misses)
	fmt.Fprintf(&b, "writes       %d (failures: %d)\n", r.Writes, r.Failures)
	fmt.Fprintf(&b, "latency      p50=%v p95=%v p99=%v max=%v\n", r.P50, r.P95, r.P99, r.Max)
	fmt.Fprintf(&b, "l1           hits=%d misses=%d evictions=%d size=%d ratio=%.2f\n",
		r.L1Stats.Hits, r.L1Stats.Misses, r.L1Stats.Evictions,
		r.L1Stats.EstimatedSize, r.L1Stats.HitRatio())
	return b.String()
}
