package xtrace

import "github.com/xiaoshicae/xascii/xutil"

const (
	XTraceConfigKey = "XTrace"
)

type Config struct {
	// Enable 是否开启 trace
	// optional default true
	Enable *bool `mapstructure:"Enable"`

	// File span 导出到的文件，为空则只生成 trace/span id 不导出
	// 终端属于播放器，不支持导出到控制台
	// optional default ""
	File string `mapstructure:"File"`
}

func configMergeDefault(c *Config) *Config {
	if c == nil {
		c = &Config{}
	}
	// 只有明确配置 Enable: false 才关闭
	if c.Enable == nil {
		c.Enable = xutil.ToPtr(true)
	}
	return c
}
