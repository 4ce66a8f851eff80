package xcache

import (
	"time"

	"github.com/dgraph-io/ristretto"
)

// Cache ristretto 封装，Set 是异步的，写入后不保证立即可读
type Cache struct {
	raw        *ristretto.Cache
	defaultTTL time.Duration
}

func (c *Cache) Get(key string) (any, bool) {
	return c.raw.Get(key)
}

// Set 使用默认 TTL，cost=1
func (c *Cache) Set(key string, value any) bool {
	return c.raw.SetWithTTL(key, value, 1, c.defaultTTL)
}

// SetWithTTL ttl 为 0 表示不过期
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) bool {
	return c.raw.SetWithTTL(key, value, 1, ttl)
}

func (c *Cache) Del(key string) {
	c.raw.Del(key)
}

func (c *Cache) Clear() {
	c.raw.Clear()
}

// Wait 等待缓冲中的写入生效，主要用于测试
func (c *Cache) Wait() {
	c.raw.Wait()
}

func (c *Cache) Close() {
	c.raw.Close()
}

// Metrics 命中率等统计，未开启统计时为 nil
func (c *Cache) Metrics() *ristretto.Metrics {
	return c.raw.Metrics
}
