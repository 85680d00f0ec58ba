// Package xinvalidate 提供基于 Redis Pub/Sub 的缓存失效广播。
//
// 多个进程实例共享同一个 L2 缓存时，任一实例的写入或删除都会使
// 其他实例的 L1 缓存陈旧。本包在实例间广播失效消息：发送方在
// 变更 L2 后发布 EVICT/CLEAR 消息，其余实例收到后仅清理本地 L1。
//
// # 投递语义
//
// 广播是尽力而为（best-effort）的：
//   - Redis Pub/Sub 不持久化消息，订阅断开期间的消息会丢失
//   - 发布失败只记录日志，不影响调用方的缓存操作
//   - 依赖 L1 的过期时间（expireAfterWrite）作为最终一致性兜底
//
// # 自回声抑制
//
// 每条消息携带 sourceInstanceId。订阅方比对自身实例 ID，
// 丢弃自己发出的消息，避免刚写入的 L1 条目被自己的广播清掉。
//
// # 基本用法
//
//	instanceID := xinvalidate.NewInstanceID()
//	pub, _ := xinvalidate.NewPublisher(client, instanceID)
//	sub, _ := xinvalidate.NewSubscriber(client, instanceID)
//	sub.AttachRouter(registry)
//	_ = sub.Start(ctx)
//	defer sub.Close()
//
//	_ = pub.PublishEvict(ctx, "users", "42")
package xinvalidate
