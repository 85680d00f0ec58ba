package bench

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/omeyang/xnear/pkg/cache/xnearcache"
)

// Options 定义单次压测的参数。
type Options struct {
	// Duration 压测持续时间。
	Duration time.Duration

	// Concurrency 并发 worker 数。
	Concurrency int

	// KeySpace 键空间大小，键形如 "0".."N-1"。
	KeySpace int

	// ValueSize 写入值的字节数。
	ValueSize int

	// ReadRatio 读操作占比，[0, 1]。0.9 表示 90% 读 10% 写。
	ReadRatio float64
}

// DefaultOptions 返回默认压测参数：10 秒、8 并发、
// 1 万键空间、128 字节值、90% 读。
func DefaultOptions() Options {
	return Options{
		Duration:    10 * time.Second,
		Concurrency: 8,
		KeySpace:    10000,
		ValueSize:   128,
		ReadRatio:   0.9,
	}
}

func (o Options) validate() error {
	if o.Duration <= 0 {
		return errors.New("bench: duration must be positive")
	}
	if o.Concurrency <= 0 {
		return errors.New("bench: concurrency must be positive")
	}
	if o.KeySpace <= 0 {
		return errors.New("bench: key space must be positive")
	}
	if o.ValueSize <= 0 {
		return errors.New("bench: value size must be positive")
	}
	if o.ReadRatio < 0 || o.ReadRatio > 1 {
		return errors.New("bench: read ratio must be within [0, 1]")
	}
	return nil
}

// Run 对缓存执行压测，阻塞直到持续时间结束或 ctx 取消。
// 压测前会用随机值预热一半的键空间，让读路径同时覆盖命中与未命中。
func Run(ctx context.Context, cache xnearcache.Cache, opts Options) (*Report, error) {
	if cache == nil {
		return nil, errors.New("bench: cache is nil")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	value := make([]byte, opts.ValueSize)
	if _, err := rand.Read(value); err != nil {
		return nil, fmt.Errorf("bench: generate payload: %w", err)
	}

	// 预热一半键空间
	for i := 0; i < opts.KeySpace/2; i++ {
		if err := cache.Put(ctx, strconv.Itoa(i), value); err != nil {
			return nil, fmt.Errorf("bench: warmup put: %w", err)
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, opts.Duration)
	defer cancel()

	var (
		reads, writes, misses, failures atomic.Int64
		wg                              sync.WaitGroup
	)
	samples := make([][]time.Duration, opts.Concurrency)

	start := time.Now()
	for w := 0; w < opts.Concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			rng := newRand(uint64(worker) + 1)
			local := make([]time.Duration, 0, 4096)

			for runCtx.Err() == nil {
				key := strconv.Itoa(int(rng.next() % uint64(opts.KeySpace)))
				began := time.Now()

				if rng.float() < opts.ReadRatio {
					_, found := cache.Lookup(runCtx, key)
					if !found {
						misses.Add(1)
					}
					reads.Add(1)
				} else {
					if err := cache.Put(runCtx, key, value); err != nil {
						failures.Add(1)
					}
					writes.Add(1)
				}
				local = append(local, time.Since(began))
			}
			samples[worker] = local
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	var all []time.Duration
	for _, s := range samples {
		all = append(all, s...)
	}

	return newReport(reportInput{
		elapsed:  elapsed,
		reads:    reads.Load(),
		writes:   writes.Load(),
		misses:   misses.Load(),
		failures: failures.Load(),
		latency:  all,
		stats:    cache.Stats(),
	}), nil
}

// =============================================================================
// 轻量级随机数
// =============================================================================

// xorshiftRand 是 worker 本地的伪随机数发生器，避免全局锁竞争。
// 压测负载分布不需要密码学强度，但种子取自 crypto/rand。
type xorshiftRand struct {
	state uint64
}

func newRand(salt uint64) *xorshiftRand {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return &xorshiftRand{state: salt | 1}
	}
	return &xorshiftRand{state: (binary.LittleEndian.Uint64(buf[:]) ^ salt) | 1}
}

func (r *xorshiftRand) next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.state = x
	return x
}

func (r *xorshiftRand) float() float64 {
	return float64(r.next()>>11) / float64(1<<53)
}
