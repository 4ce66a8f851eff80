package xconfig

import (
	"sync"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	flagBindings   = make(map[string]*pflag.Flag) // 配置 key -> 命令行 flag
	flagBindingsMu sync.Mutex
)

// BindFlags 将命令行 flag 绑定到配置 key，keys 为 配置 key -> flag 名
// 只有显式传入的 flag 才会覆盖配置文件
func BindFlags(fs *pflag.FlagSet, keys map[string]string) {
	flagBindingsMu.Lock()
	defer flagBindingsMu.Unlock()
	for key, name := range keys {
		if f := fs.Lookup(name); f != nil {
			flagBindings[key] = f
		}
	}
}

// applyFlagOverrides 用已修改的 flag 覆盖配置
// 走 MergeConfigMap 而非 Set，避免 UnmarshalKey 读父级 key 时丢失兄弟字段
func applyFlagOverrides(vp *viper.Viper) error {
	flagBindingsMu.Lock()
	defer flagBindingsMu.Unlock()

	overrides := make(map[string]interface{})
	for key, f := range flagBindings {
		if !f.Changed {
			continue
		}
		setNestedValue(overrides, key, f.Value.String())
	}
	if len(overrides) == 0 {
		return nil
	}
	return vp.MergeConfigMap(overrides)
}

func resetFlagBindings() {
	flagBindingsMu.Lock()
	defer flagBindingsMu.Unlock()
	flagBindings = make(map[string]*pflag.Flag)
}
