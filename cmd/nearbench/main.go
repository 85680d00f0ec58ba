// nearbench 是近端缓存的压测命令行工具。
//
// 用法:
//
//	nearbench [选项]
//
// 选项:
//
//	-c, --config       配置文件路径（YAML/JSON，缺省使用内置默认值）
//	    --cache        目标缓存命名空间 (默认: bench)
//	-d, --duration     压测持续时间 (默认: 10s)
//	    --concurrency  并发 worker 数 (默认: 8)
//	    --keys         键空间大小 (默认: 10000)
//	    --value-size   写入值字节数 (默认: 128)
//	    --read-ratio   读操作占比 [0,1] (默认: 0.9)
//	    --local-only   只压 L1，不连接 Redis
//
// 退出码:
//
//	0: 压测完成
//	1: 配置或运行错误
//
// 示例:
//
//	nearbench --local-only -d 5s
//	nearbench -c /etc/near/config.yaml --read-ratio 0.99
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/urfave/cli/v3"

	"github.com/omeyang/xnear/internal/bench"
	"github.com/omeyang/xnear/pkg/cache/xnearcache"
	"github.com/omeyang/xnear/pkg/cache/xremote"
	"github.com/omeyang/xnear/pkg/config/xnearconf"
	"github.com/omeyang/xnear/pkg/mq/xinvalidate"
)

// 版本信息（可通过 -ldflags 注入）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := createApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	defaults := bench.DefaultOptions()

	return &cli.Command{
		Name:    "nearbench",
		Usage:   "近端缓存压测工具",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径",
			},
			&cli.StringFlag{
				Name:  "cache",
				Usage: "目标缓存命名空间",
				Value: "bench",
			},
			&cli.DurationFlag{
				Name:    "duration",
				Aliases: []string{"d"},
				Usage:   "压测持续时间",
				Value:   defaults.Duration,
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "并发 worker 数",
				Value: defaults.Concurrency,
			},
			&cli.IntFlag{
				Name:  "keys",
				Usage: "键空间大小",
				Value: defaults.KeySpace,
			},
			&cli.IntFlag{
				Name:  "value-size",
				Usage: "写入值字节数",
				Value: defaults.ValueSize,
			},
			&cli.FloatFlag{
				Name:  "read-ratio",
				Usage: "读操作占比 [0,1]",
				Value: defaults.ReadRatio,
			},
			&cli.BoolFlag{
				Name:  "local-only",
				Usage: "只压 L1，不连接 Redis",
			},
		},
		Action: runBench,
	}
}

// runBench 组装缓存栈并执行压测。
func runBench(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Bool("local-only") {
		settings.Cache.L2.Enabled = false
	}

	cache, cleanup, err := buildCache(ctx, settings, cmd.String("cache"))
	if err != nil {
		return err
	}
	defer cleanup()

	opts := bench.Options{
		Duration:    cmd.Duration("duration"),
		Concurrency: cmd.Int("concurrency"),
		KeySpace:    cmd.Int("keys"),
		ValueSize:   cmd.Int("value-size"),
		ReadRatio:   cmd.Float("read-ratio"),
	}

	fmt.Fprintf(os.Stderr, "压测 %q: %v, %d workers, %d keys, read %.0f%%\n",
		cmd.String("cache"), opts.Duration, opts.Concurrency, opts.KeySpace, opts.ReadRatio*100)

	report, err := bench.Run(ctx, cache, opts)
	if err != nil {
		return err
	}

	fmt.Print(report.String())
	return nil
}

// loadSettings 读取配置文件，未指定时使用内置默认值。
func loadSettings(cmd *cli.Command) (xnearconf.Settings, error) {
	path := cmd.String("config")
	if path == "" {
		return xnearconf.DefaultSettings(), nil
	}
	loader, err := xnearconf.Load(path)
	if err != nil {
		return xnearconf.Settings{}, err
	}
	return loader.Settings(), nil
}

// buildCache 按配置组装两级缓存与失效广播，返回目标命名空间的缓存实例。
func buildCache(ctx context.Context, settings xnearconf.Settings, name string) (xnearcache.Cache, func(), error) {
	noop := func() {}

	// 只压 L1 的快速路径
	if !settings.Cache.L2.Enabled {
		registry, err := xnearcache.NewRegistry(settings.Cache, nil)
		if err != nil {
			return nil, noop, err
		}
		cache, err := registry.GetOrCreate(name)
		if err != nil {
			_ = registry.Close()
			return nil, noop, err
		}
		return cache, func() { _ = registry.Close() }, nil
	}

	client := settings.Redis.NewRedisClient()

	// Redis 可达性探测，指数退避重试
	probe := retry.New(
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err := probe.Do(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return client.Ping(pingCtx).Err()
	}); err != nil {
		_ = client.Close()
		return nil, noop, fmt.Errorf("redis 不可达 %v: %w", settings.Redis.Addrs, err)
	}

	remote, err := xremote.NewRedis(client, xremote.WithOwnedClient(true))
	if err != nil {
		_ = client.Close()
		return nil, noop, err
	}

	instanceID := xinvalidate.NewInstanceID()
	pub, err := xinvalidate.NewPublisher(client, instanceID, xinvalidate.WithChannel(settings.Channel))
	if err != nil {
		_ = remote.Close()
		return nil, noop, err
	}

	registry, err := xnearcache.NewRegistry(settings.Cache, remote, xnearcache.WithPublisher(pub))
	if err != nil {
		_ = remote.Close()
		return nil, noop, err
	}

	sub, err := xinvalidate.NewSubscriber(client, instanceID, xinvalidate.WithChannel(settings.Channel))
	if err != nil {
		_ = registry.Close()
		_ = remote.Close()
		return nil, noop, err
	}
	sub.AttachRouter(registry)
	if err := sub.Start(ctx); err != nil {
		_ = registry.Close()
		_ = remote.Close()
		return nil, noop, err
	}

	cache, err := registry.GetOrCreate(name)
	if err != nil {
		_ = sub.Close()
		_ = registry.Close()
		_ = remote.Close()
		return nil, noop, err
	}

	cleanup := func() {
		_ = sub.Close()
		_ = registry.Close()
		_ = remote.Close()
	}
	return cache, cleanup, nil
}
