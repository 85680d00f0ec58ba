// Package xlocal 提供进程内 L1 缓存实现，供两级缓存（near cache）使用。
//
// # 设计理念
//
// xlocal 不是通用缓存库，而是 xnearcache 的 L1 能力提供方。
// Local 接口刻画两级缓存对 L1 的全部要求：有界容量、按 key 读写失效、
// 整体失效、规模估算与命中统计。
//
// # 两种实现
//
//   - Ristretto：基于 dgraph-io/ristretto，高并发读性能，异步写入。
//     写入经过缓冲后才可见，需要立即读取时调用 Wait()。
//   - LRU：基于 hashicorp/golang-lru 的 expirable LRU，同步写入，
//     规模统计精确。适合确定性要求高的场景（如测试）。
//
// # 过期语义
//
// 两种实现均支持按条目 TTL。当同时配置写后过期与访问后过期时，
// 取两者较小值作为条目 TTL（近似语义，详见各实现的说明）。
package xlocal
