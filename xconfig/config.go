package xconfig

const (
	ServerConfigKey = "Server"
)

// Server 进程级基础信息，日志、trace 与 /stats 都会引用
type Server struct {
	// Name 服务名
	// optional default "xascii"
	Name string `mapstructure:"Name"`

	// Version 版本号
	// optional default "v0.0.1"
	Version string `mapstructure:"Version"`
}

func serverConfigMergeDefault(c *Server) *Server {
	if c == nil {
		c = &Server{}
	}
	if c.Name == "" {
		c.Name = defaultServerName
	}
	if c.Version == "" {
		c.Version = defaultServerVersion
	}
	return c
}
