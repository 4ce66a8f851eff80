package xflow

import (
	"sync"

	"github.com/xiaoshicae/xascii/xconfig"
)

const XFlowConfigKey = "XFlow"

type Config struct {
	// DisableMonitor 关闭启动流程的步骤日志
	// optional default false
	DisableMonitor bool `mapstructure:"DisableMonitor"`
}

func configMergeDefault(c *Config) *Config {
	if c == nil {
		c = &Config{}
	}
	return c
}

var (
	cachedConfig     *Config
	cachedConfigOnce sync.Once
)

// GetConfig 只在首次调用时读取配置
func GetConfig() *Config {
	cachedConfigOnce.Do(func() {
		c := &Config{}
		if err := xconfig.UnmarshalConfig(XFlowConfigKey, c); err != nil {
			cachedConfig = configMergeDefault(nil)
			return
		}
		cachedConfig = configMergeDefault(c)
	})
	return cachedConfig
}
