package xstatus

import (
	"github.com/xiaoshicae/xascii/xconfig"
	"github.com/xiaoshicae/xascii/xutil"
)

const XStatusConfigKey = "XStatus"

type Config struct {
	// Enable 是否启动诊断 HTTP 服务
	// optional default false
	Enable bool `mapstructure:"Enable"`

	// Host 监听地址
	// optional default "127.0.0.1"
	Host string `mapstructure:"Host"`

	// Port 监听端口，0 表示随机端口
	// optional default 8000
	Port *int `mapstructure:"Port"`
}

func GetConfig() *Config {
	c := &Config{}
	_ = xconfig.UnmarshalConfig(XStatusConfigKey, c)
	return configMergeDefault(c)
}

func configMergeDefault(c *Config) *Config {
	if c == nil {
		c = &Config{}
	}
	c.Host = xutil.GetOrDefault(c.Host, "127.0.0.1")
	if c.Port == nil || *c.Port < 0 {
		c.Port = xutil.ToPtr(8000)
	}
	return c
}
