package xconfig

import (
	"fmt"
	"reflect"
	"time"

	"github.com/xiaoshicae/xascii/xutil"

	"github.com/spf13/viper"
)

const (
	serverNameConfigKey    = ServerConfigKey + ".Name"
	serverVersionConfigKey = ServerConfigKey + ".Version"

	defaultServerName    = "xascii"
	defaultServerVersion = "v0.0.1"

	dotEnvFileName = ".env"
)

// UnmarshalConfig 将 key 对应的配置解析到 conf，conf 必须是指针
func UnmarshalConfig(key string, conf interface{}) error {
	if err := checkParam(key, conf); err != nil {
		return err
	}
	if err := getViperConfig().UnmarshalKey(key, conf); err != nil {
		return err
	}
	return nil
}

func GetConfig(key string) any {
	return getViperConfig().Get(key)
}

func ContainKey(key string) bool {
	return getViperConfig().IsSet(key)
}

func GetString(key string) string {
	return getViperConfig().GetString(key)
}

func GetBool(key string) bool {
	return getViperConfig().GetBool(key)
}

func GetInt(key string) int {
	return getViperConfig().GetInt(key)
}

func GetFloat64(key string) float64 {
	return getViperConfig().GetFloat64(key)
}

func GetDuration(key string) time.Duration {
	return getViperConfig().GetDuration(key)
}

func GetStringSlice(key string) []string {
	return getViperConfig().GetStringSlice(key)
}

// GetServerName 获取 Server.Name，未配置返回默认值
func GetServerName() string {
	return xutil.GetOrDefault(getViperConfig().GetString(serverNameConfigKey), defaultServerName)
}

// GetServerVersion 获取 Server.Version，未配置返回默认值
func GetServerVersion() string {
	return xutil.GetOrDefault(getViperConfig().GetString(serverVersionConfigKey), defaultServerVersion)
}

// GetServer 获取合并默认值后的 Server 配置
func GetServer() *Server {
	c := &Server{}
	if err := UnmarshalConfig(ServerConfigKey, c); err != nil {
		xutil.WarnIfEnableDebug("XAscii unmarshal server config failed, err=[%v]", err)
	}
	return serverConfigMergeDefault(c)
}

func getViperConfig() *viper.Viper {
	vipMu.RLock()
	defer vipMu.RUnlock()
	if vip == nil {
		xutil.WarnIfEnableDebug("config not found, please init config first")
		return viper.New()
	}
	return vip
}

func checkParam(key string, conf interface{}) error {
	if key == "" {
		return fmt.Errorf("param key is empty")
	}
	if conf == nil {
		return fmt.Errorf("param conf is nil")
	}
	if reflect.TypeOf(conf).Kind() != reflect.Ptr {
		return fmt.Errorf("param conf is not ptr")
	}
	return nil
}
