// Package mq 提供消息广播相关的子包。
//
// 子包列表：
//   - xinvalidate: 基于 Redis Pub/Sub 的缓存失效广播
//
// 设计原则：
//   - 广播为尽力而为语义，不保证送达，依赖 TTL 兜底收敛
//   - 消息携带来源实例标识，订阅端丢弃自身回声
//   - 协议向前兼容，未知消息类型记录日志后丢弃
package mq
