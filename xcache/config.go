package xcache

const XCacheConfigKey = "XCache"

const (
	defaultNumCounters = 100000
	defaultMaxCost     = 10000
	defaultBufferItems = 64
	defaultTTL         = "0s"
)

// Config 编码器的字形点阵缓存，字符集 x 颜色组合有限，默认容量足够
type Config struct {
	// NumCounters 跟踪频率的键数量，建议为期望条目数的 10 倍
	// optional default 100000
	NumCounters int64 `mapstructure:"NumCounters"`

	// MaxCost 最大成本，每个条目 cost=1 时即最大条目数
	// optional default 10000
	MaxCost int64 `mapstructure:"MaxCost"`

	// BufferItems Get 操作的内部缓冲区大小
	// optional default 64
	BufferItems int64 `mapstructure:"BufferItems"`

	// DefaultTTL 默认过期时间，"0s" 表示不过期
	// optional default "0s"
	DefaultTTL string `mapstructure:"DefaultTTL"`
}

func configMergeDefault(c *Config) *Config {
	if c == nil {
		c = &Config{}
	}
	if c.NumCounters <= 0 {
		c.NumCounters = defaultNumCounters
	}
	if c.MaxCost <= 0 {
		c.MaxCost = defaultMaxCost
	}
	if c.BufferItems <= 0 {
		c.BufferItems = defaultBufferItems
	}
	if c.DefaultTTL == "" {
		c.DefaultTTL = defaultTTL
	}
	return c
}
