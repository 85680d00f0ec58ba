// Package xnearcache 实现两级"近端缓存"（near cache）。
//
// 每个进程持有一个快速的本地 L1 缓存（xlocal），背后是所有实例
// 共享的 L2 缓存（xremote，Redis）。读路径优先命中 L1，未命中时
// 回落到 L2 并回填 L1；写路径同时写入两级。跨实例一致性依赖
// xinvalidate 的失效广播（尽力而为）加上 L1/L2 的过期时间兜底。
//
// # 一致性模型
//
// 这不是强一致缓存：
//   - L2 是跨实例的权威状态，L1 只是本地的、可能陈旧的视图
//   - 不使用分布式锁，不保证失效消息必达
//   - 两个实例并发写同一 key 时，L2 以后写为准，
//     各实例 L1 的收敛依赖失效广播或 TTL 自然过期
//
// # 失败语义
//
// L2 和广播的故障对调用方不可见（fail-open）：
//   - L2 读失败视同未命中，记录日志
//   - L2 写/删失败记录日志后忽略，不回滚 L1
//   - 广播失败记录日志后忽略
//
// 只有两类错误会冒泡给调用方：回源函数失败（ErrLoadFailed）和
// 关闭空值缓存时写入 nil（ErrNullValueDisabled）。
//
// # 基本用法
//
//	registry, _ := xnearcache.NewRegistry(xnearcache.DefaultConfig(), remote,
//		xnearcache.WithPublisher(pub))
//	users, _ := registry.GetOrCreate("users")
//
//	_ = users.Put(ctx, "1", []byte("Alice"))
//	value, found := users.Lookup(ctx, "1")
//
// 订阅端接线（两阶段，见 xinvalidate）：
//
//	sub.AttachRouter(registry)
//	_ = sub.Start(ctx)
package xnearcache
