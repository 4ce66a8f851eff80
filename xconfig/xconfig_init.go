package xconfig

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"
	"sync"

	"github.com/xiaoshicae/xascii/xhook"
	"github.com/xiaoshicae/xascii/xutil"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	vip   *viper.Viper
	vipMu sync.RWMutex
)

var envPlaceholderRegex = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func init() {
	xhook.BeforeStart(initXConfig, xhook.Order(1))
}

func initXConfig() error {
	vp := viper.New()

	if configLocation := detectConfigLocation(); configLocation != "" {
		if err := loadDotEnvIfExist(configLocation); err != nil {
			return fmt.Errorf("XAscii initXConfig invoke loadDotEnvIfExist failed, err=[%v]", err)
		}
		parsed, err := parseConfig(configLocation)
		if err != nil {
			return fmt.Errorf("XAscii initXConfig invoke parseConfig failed, err=[%v]", err)
		}
		vp = parsed
	} else {
		xutil.WarnIfEnableDebug("XAscii initXConfig config file location not found, use flags and default config")
	}

	if err := applyFlagOverrides(vp); err != nil {
		return fmt.Errorf("XAscii initXConfig invoke applyFlagOverrides failed, err=[%v]", err)
	}

	printFinalConfig(vp)

	vipMu.Lock()
	vip = vp
	vipMu.Unlock()
	return nil
}

func loadDotEnvIfExist(configLocation string) error {
	dotEnvFileFullPath := path.Join(path.Dir(configLocation), dotEnvFileName)
	if xutil.FileExist(dotEnvFileFullPath) {
		return godotenv.Load(dotEnvFileFullPath)
	}
	return nil
}

func parseConfig(configLocation string) (*viper.Viper, error) {
	vp, err := loadLocalConfig(configLocation)
	if err != nil {
		return nil, fmt.Errorf("load viper config failed, err=[%v]", err)
	}
	expandEnvPlaceholders(vp)
	return vp, nil
}

func loadLocalConfig(configLocation string) (*viper.Viper, error) {
	vp := viper.New()
	vp.SetConfigFile(configLocation)
	if err := vp.ReadInConfig(); err != nil {
		return nil, err
	}
	return vp, nil
}

func printFinalConfig(vp *viper.Viper) {
	debugMsg := `
************************************** XAscii load config **************************************
%s
************************************************************************************************

`
	if xutil.EnableDebug() {
		fmt.Fprintf(os.Stderr, debugMsg, xutil.ToJsonStringIndent(vp.AllSettings()))
	}
}

// expandEnvPlaceholders 展开配置中的 ${VAR} 和 ${VAR:-default}
func expandEnvPlaceholders(vp *viper.Viper) {
	expansions := make(map[string]string)

	for _, key := range vp.AllKeys() {
		val := vp.GetString(key)
		if val == "" {
			continue
		}

		expanded := envPlaceholderRegex.ReplaceAllStringFunc(val, func(match string) string {
			matches := envPlaceholderRegex.FindStringSubmatch(match)
			if len(matches) < 2 {
				return match
			}
			defaultVal := ""
			if len(matches) >= 3 {
				defaultVal = matches[2]
			}
			if envVal := os.Getenv(matches[1]); envVal != "" {
				return envVal
			}
			return defaultVal
		})

		if expanded != val {
			expansions[key] = expanded
		}
	}

	if len(expansions) > 0 {
		allSettings := vp.AllSettings()
		for key, val := range expansions {
			setNestedValue(allSettings, key, val)
		}
		for k, v := range allSettings {
			vp.Set(k, v)
		}
	}
}

// setNestedValue 按 a.b.c 写入嵌套 map，缺失的中间层自动创建
func setNestedValue(m map[string]interface{}, key string, value interface{}) {
	keys := strings.Split(key, ".")
	current := m

	for i := 0; i < len(keys)-1; i++ {
		k := keys[i]
		if next, ok := current[k].(map[string]interface{}); ok {
			current = next
		} else {
			newMap := make(map[string]interface{})
			current[k] = newMap
			current = newMap
		}
	}

	current[keys[len(keys)-1]] = value
}

// setViperForTest 替换全局配置，仅测试使用
func setViperForTest(vp *viper.Viper) {
	vipMu.Lock()
	defer vipMu.Unlock()
	vip = vp
}
