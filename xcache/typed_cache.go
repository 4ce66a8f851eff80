package xcache

import "time"

// TypedCache 类型安全的缓存视图
type TypedCache[V any] struct {
	cache *Cache
}

// Of 全局缓存上的类型视图
func Of[V any]() *TypedCache[V] {
	return &TypedCache[V]{cache: global()}
}

// Wrap 在指定缓存上创建类型视图
func Wrap[V any](c *Cache) *TypedCache[V] {
	return &TypedCache[V]{cache: c}
}

// Get 类型不符视为未命中
func (c *TypedCache[V]) Get(key string) (V, bool) {
	var zero V
	if c.cache == nil {
		return zero, false
	}
	val, ok := c.cache.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := val.(V)
	if !ok {
		return zero, false
	}
	return typed, true
}

func (c *TypedCache[V]) Set(key string, value V) bool {
	if c.cache == nil {
		return false
	}
	return c.cache.Set(key, value)
}

func (c *TypedCache[V]) SetWithTTL(key string, value V, ttl time.Duration) bool {
	if c.cache == nil {
		return false
	}
	return c.cache.SetWithTTL(key, value, ttl)
}

func (c *TypedCache[V]) Del(key string) {
	if c.cache == nil {
		return
	}
	c.cache.Del(key)
}

func (c *TypedCache[V]) Wait() {
	if c.cache == nil {
		return
	}
	c.cache.Wait()
}
