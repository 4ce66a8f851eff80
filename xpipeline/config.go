package xpipeline

import (
	"sync"
	"time"

	"github.com/xiaoshicae/xascii/xconfig"
	"github.com/xiaoshicae/xascii/xutil"
)

const XPipelineConfigKey = "XPipeline"

const (
	defaultPollInterval  = "100ms"
	defaultStatsInterval = "1s"
)

type Config struct {
	// DisableMonitor 关闭阶段结束日志
	// optional default false
	DisableMonitor bool `mapstructure:"DisableMonitor"`

	// PollInterval 下游阶段空队列时的最长等待，之后重新检查停止标记
	// optional default "100ms"
	PollInterval string `mapstructure:"PollInterval"`

	// StatsInterval 周期性输出运行统计，"0" 关闭
	// optional default "1s"
	StatsInterval string `mapstructure:"StatsInterval"`
}

func configMergeDefault(c *Config) *Config {
	if c == nil {
		c = &Config{}
	}
	c.PollInterval = xutil.GetOrDefault(c.PollInterval, defaultPollInterval)
	c.StatsInterval = xutil.GetOrDefault(c.StatsInterval, defaultStatsInterval)
	return c
}

func (c *Config) pollInterval() time.Duration {
	return xutil.ToDuration(c.PollInterval)
}

func (c *Config) statsInterval() time.Duration {
	return xutil.ToDuration(c.StatsInterval)
}

var (
	cachedConfig     *Config
	cachedConfigOnce sync.Once
)

// GetConfig 只在首次调用时读取配置
func GetConfig() *Config {
	cachedConfigOnce.Do(func() {
		c := &Config{}
		if err := xconfig.UnmarshalConfig(XPipelineConfigKey, c); err != nil {
			cachedConfig = configMergeDefault(nil)
			return
		}
		cachedConfig = configMergeDefault(c)
	})
	return cachedConfig
}
