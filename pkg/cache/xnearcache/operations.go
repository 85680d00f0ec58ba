package xnearcache

import "context"

// =============================================================================
// Operations 门面
// =============================================================================

// Operations 是按命名空间名称寻址的便捷门面。
//
// 适合运维接口和调试工具这类"名称来自外部输入"的场景；
// 业务代码直接持有 Cache 实例即可，无需经过门面。
// 读写方法按需实例化命名空间（与 Registry.GetOrCreate 一致）。
type Operations struct {
	registry *Registry
}

// NewOperations 创建操作门面。registry 不能为 nil。
func NewOperations(registry *Registry) *Operations {
	return &Operations{registry: registry}
}

// Get 查询指定命名空间的键。
func (o *Operations) Get(ctx context.Context, cacheName, key string) ([]byte, bool, error) {
	c, err := o.registry.GetOrCreate(cacheName)
	if err != nil {
		return nil, false, err
	}
	value, ok := c.Lookup(ctx, key)
	return value, ok, nil
}

// Put 写入指定命名空间。
func (o *Operations) Put(ctx context.Context, cacheName, key string, value []byte) error {
	c, err := o.registry.GetOrCreate(cacheName)
	if err != nil {
		return err
	}
	return c.Put(ctx, key, value)
}

// Evict 从指定命名空间删除键并广播。
func (o *Operations) Evict(ctx context.Context, cacheName, key string) error {
	c, err := o.registry.GetOrCreate(cacheName)
	if err != nil {
		return err
	}
	return c.Evict(ctx, key)
}

// Clear 清空指定命名空间并广播。
func (o *Operations) Clear(ctx context.Context, cacheName string) error {
	c, err := o.registry.GetOrCreate(cacheName)
	if err != nil {
		return err
	}
	return c.Clear(ctx)
}

// Exists 判断指定命名空间中键是否存在。
// 缓存的空值也视为存在。
func (o *Operations) Exists(ctx context.Context, cacheName, key string) (bool, error) {
	c, err := o.registry.GetOrCreate(cacheName)
	if err != nil {
		return false, err
	}
	_, ok := c.Lookup(ctx, key)
	return ok, nil
}

// GetOrCompute 查询指定命名空间，未命中时回源并写入。
func (o *Operations) GetOrCompute(ctx context.Context, cacheName, key string, loader LoadFunc) ([]byte, error) {
	c, err := o.registry.GetOrCreate(cacheName)
	if err != nil {
		return nil, err
	}
	return c.GetOrLoad(ctx, key, loader)
}

// ClearAllLocal 清空所有已实例化命名空间的 L1。不触碰 L2，不广播。
func (o *Operations) ClearAllLocal() {
	o.registry.ClearAllLocal()
}

// Names 返回已实例化的命名空间名称快照。
func (o *Operations) Names() []string {
	return o.registry.Names()
}

// Stats 返回指定命名空间的统计信息。
// 命名空间尚未实例化时返回 false。
func (o *Operations) Stats(cacheName string) (Stats, bool) {
	all := o.registry.Stats()
	stats, ok := all[cacheName]
	return stats, ok
}

// AllStats 返回所有已实例化命名空间的统计快照。
func (o *Operations) AllStats() map[string]Stats {
	return o.registry.Stats()
}
