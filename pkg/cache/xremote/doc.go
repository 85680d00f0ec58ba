// Package xremote 提供共享 L2 缓存实现，供两级缓存（near cache）使用。
//
// # 设计理念
//
// Remote 接口刻画两级缓存对 L2 的全部要求：按 key 读写删、带 TTL 写入、
// 按前缀批量删除。实现基于 go-redis UniversalClient，底层客户端通过
// Client() 直接暴露，xremote 不重复包装 go-redis 的完整 API。
//
// # 故障语义
//
// 所有操作将网络故障原样返回给调用方，由两级缓存层决定 fail-open 策略
// （读故障视为未命中、写故障记日志后忽略）。xremote 自身不做重试。
//
// 可选的熔断保护（WithBreaker）在 Redis 持续故障时快速失败，
// 避免每次请求都等待完整的连接超时；熔断打开期间所有操作立即返回错误，
// 上层的 fail-open 策略会将其降级为未命中。
package xremote
