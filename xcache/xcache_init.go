package xcache

import (
	"sync"

	"github.com/dgraph-io/ristretto"

	"github.com/xiaoshicae/xascii/xconfig"
	"github.com/xiaoshicae/xascii/xerror"
	"github.com/xiaoshicae/xascii/xhook"
	"github.com/xiaoshicae/xascii/xutil"
)

var (
	globalCache *Cache
	cacheMu     sync.Mutex
)

func init() {
	xhook.BeforeStart(initXCache)
	xhook.BeforeStop(closeXCache)
}

func initXCache() error {
	if !xconfig.ContainKey(XCacheConfigKey) {
		xutil.InfoIfEnableDebug("XAscii init %s skipped, config key not exists, lazy default cache will be used", XCacheConfigKey)
		return nil
	}

	config, err := getConfig()
	if err != nil {
		return xerror.Newf("xcache", "init", "getConfig failed, err=[%v]", err)
	}
	xutil.InfoIfEnableDebug("XAscii init %s got config: %s", XCacheConfigKey, xutil.ToJsonString(config))

	cache, err := newCache(config)
	if err != nil {
		return err
	}

	cacheMu.Lock()
	old := globalCache
	globalCache = cache
	cacheMu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// global 未配置时懒初始化一个默认缓存
func global() *Cache {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if globalCache != nil {
		return globalCache
	}
	c, err := newCache(configMergeDefault(nil))
	if err != nil {
		xutil.ErrorIfEnableDebug("XAscii xcache create default global cache failed, err=[%v]", err)
		return nil
	}
	globalCache = c
	return globalCache
}

func closeXCache() error {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if globalCache != nil {
		globalCache.Close()
		globalCache = nil
	}
	return nil
}

// New 创建独立缓存，调用方负责 Close
func New(c *Config) (*Cache, error) {
	return newCache(configMergeDefault(c))
}

func newCache(c *Config) (*Cache, error) {
	raw, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: c.NumCounters,
		MaxCost:     c.MaxCost,
		BufferItems: c.BufferItems,
		Metrics:     true,
	})
	if err != nil {
		return nil, xerror.Newf("xcache", "newCache", "ristretto.NewCache failed, err=[%v]", err)
	}

	return &Cache{
		raw:        raw,
		defaultTTL: xutil.ToDuration(c.DefaultTTL),
	}, nil
}

func getConfig() (*Config, error) {
	c := &Config{}
	if err := xconfig.UnmarshalConfig(XCacheConfigKey, c); err != nil {
		return nil, err
	}
	return configMergeDefault(c), nil
}
