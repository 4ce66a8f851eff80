package xlog

const (
	XLogConfigKey = "XLog"
)

type Config struct {
	// Level 日志级别
	// optional default "info"
	Level string `mapstructure:"Level"`

	// Name 日志文件名称
	// optional default "xascii"
	Name string `mapstructure:"Name"`

	// Path 日志文件夹路径
	// optional default "./log"
	Path string `mapstructure:"Path"`

	// Console 是否同时输出到 stderr，stdout 被播放器占用
	// optional default false
	Console bool `mapstructure:"Console"`

	// ConsoleFormatIsRaw 控制台是否输出原始 json
	// optional default false
	ConsoleFormatIsRaw bool `mapstructure:"ConsoleFormatIsRaw"`

	// DisableAsync 关闭异步写文件，逐帧日志较多时建议保持异步
	// optional default false
	DisableAsync bool `mapstructure:"DisableAsync"`

	// AsyncBufferSize 异步写入缓冲条数
	// optional default 4096
	AsyncBufferSize int `mapstructure:"AsyncBufferSize"`

	// AsyncDropWhenFull 异步队列满时丢弃日志而不是阻塞调用方，播放模式下建议打开
	// optional default false
	AsyncDropWhenFull bool `mapstructure:"AsyncDropWhenFull"`

	// MaxAge 日志保存最大时间
	// optional default "7d"
	MaxAge string `mapstructure:"MaxAge"`

	// RotateTime 日志切割时长
	// optional default "1d"
	RotateTime string `mapstructure:"RotateTime"`

	// Timezone 日志时间的时区
	// optional default "Local"
	Timezone string `mapstructure:"Timezone"`
}

func configMergeDefault(c *Config) *Config {
	if c == nil {
		c = &Config{}
	}
	if c.Name == "" {
		c.Name = "xascii"
	}
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Path == "" {
		c.Path = "./log"
	}
	if c.AsyncBufferSize <= 0 {
		c.AsyncBufferSize = defaultAsyncBufferSize
	}
	if c.MaxAge == "" {
		c.MaxAge = "7d"
	}
	if c.RotateTime == "" {
		c.RotateTime = "1d"
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	return c
}
