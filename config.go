package xascii

import (
	"github.com/xiaoshicae/xascii/xconfig"
	"github.com/xiaoshicae/xascii/xutil"
)

const XAsciiConfigKey = "XAscii"

const (
	defaultFPS         = 30
	defaultEncoderCols = 120
	defaultEncoderRows = 40
)

type Config struct {
	// Input 视频文件路径
	// required
	Input string `mapstructure:"Input"`

	// Mode 输出模式 gray|color
	// optional default "gray"
	Mode string `mapstructure:"Mode"`

	// Density 内置字符集 coarse|fine
	// optional default "coarse"
	Density string `mapstructure:"Density"`

	// Ramp 自定义字符集，由暗到亮，至少 2 个字符，优先于 Density
	// optional default ""
	Ramp string `mapstructure:"Ramp"`

	// Invert 反转字符集，适合浅色背景
	// optional default false
	Invert bool `mapstructure:"Invert"`

	// Output 为空时在终端播放，否则编码到该文件（.gif 或 ffmpeg 支持的格式）
	// optional default ""
	Output string `mapstructure:"Output"`

	// FPS 播放帧率，同时也是编码输出的帧率
	// optional default 30
	FPS int `mapstructure:"FPS"`

	// Cols/Rows 输出网格尺寸；播放时默认取终端尺寸，编码时默认 120x40
	// optional default 0
	Cols int `mapstructure:"Cols"`
	Rows int `mapstructure:"Rows"`
}

func configMergeDefault(c *Config) *Config {
	if c == nil {
		c = &Config{}
	}
	c.Mode = xutil.GetOrDefault(c.Mode, "gray")
	c.Density = xutil.GetOrDefault(c.Density, "coarse")
	if c.FPS <= 0 {
		c.FPS = defaultFPS
	}
	return c
}

func getConfig() (*Config, error) {
	c := &Config{}
	if err := xconfig.UnmarshalConfig(XAsciiConfigKey, c); err != nil {
		return nil, err
	}
	return configMergeDefault(c), nil
}
