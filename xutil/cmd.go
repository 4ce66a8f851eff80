package xutil

import (
	"os"
	"strings"
)

// ArgValue 在启动参数中查找 names 中任一参数的值
// 支持 --config a.yml、--config=a.yml、-c a.yml 三种写法，遇到 -- 停止查找；
// 参数存在但没有值时返回 ("", false)
func ArgValue(names ...string) (string, bool) {
	args := GetOsArgs()
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		key, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !matchArgName(key, names) {
			continue
		}
		if hasValue {
			return value, value != ""
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			return args[i+1], true
		}
		return "", false
	}
	return "", false
}

func matchArgName(key string, names []string) bool {
	for _, n := range names {
		if key == n {
			return true
		}
	}
	return false
}

// GetOsArgs 获取启动命令参数（排除程序名）
func GetOsArgs() []string {
	return os.Args[1:]
}
