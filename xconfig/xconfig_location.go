package xconfig

import (
	"os"

	"github.com/xiaoshicae/xascii/xutil"
)

const (
	configLocationArgKey = "server.config.location"
	configLocationEnvKey = "SERVER_CONFIG_LOCATION"
)

// configLocationPaths 配置文件搜索路径，按优先级排序
var configLocationPaths = []string{
	"./application.yml",
	"./application.yaml",
	"./conf/application.yml",
	"./conf/application.yaml",
	"./config/application.yml",
	"./config/application.yaml",
}

// SetConfigLocation 显式指定配置文件路径，优先级最高
func SetConfigLocation(loc string) {
	explicitLocation = loc
}

var explicitLocation string

func detectConfigLocation() string {
	if explicitLocation != "" {
		xutil.InfoIfEnableDebug("XAscii detect config location [%s] from explicit setting", explicitLocation)
		return explicitLocation
	}

	if loc := getLocationFromArg(); loc != "" {
		xutil.InfoIfEnableDebug("XAscii detect config location [%s] from arg", loc)
		return loc
	}

	if loc := getLocationFromENV(); loc != "" {
		xutil.InfoIfEnableDebug("XAscii detect config location [%s] from env", loc)
		return loc
	}

	if loc := getLocationFromCurrentDir(); loc != "" {
		xutil.InfoIfEnableDebug("XAscii detect config location [%s] from current dir", loc)
		return loc
	}

	return ""
}

// getLocationFromArg 兼容 --config/-c 与 --server.config.location 两种写法
func getLocationFromArg() string {
	c, _ := xutil.ArgValue("config", "c", configLocationArgKey)
	return c
}

func getLocationFromENV() string {
	return os.Getenv(configLocationEnvKey)
}

func getLocationFromCurrentDir() string {
	for _, loc := range configLocationPaths {
		if xutil.FileExist(loc) {
			return loc
		}
	}
	return ""
}
