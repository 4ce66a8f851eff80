package xlog

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"
	"time"

	"github.com/xiaoshicae/xascii/xconfig"
	"github.com/xiaoshicae/xascii/xhook"
	"github.com/xiaoshicae/xascii/xutil"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
	logwriter "github.com/sirupsen/logrus/hooks/writer"
)

func init() {
	xhook.BeforeStart(initXLog, xhook.Order(2))
}

func initXLog() error {
	c, err := getConfig()
	if err != nil {
		return fmt.Errorf("XAscii initXLog getConfig failed, err=[%v]", err)
	}
	xutil.InfoIfEnableDebug("XAscii initXLog got config: %s", xutil.ToJsonString(c))

	return initXLogByConfig(c)
}

func initXLogByConfig(c *Config) error {
	if err := xutil.EnsureDir(c.Path); err != nil {
		return fmt.Errorf("XAscii initXLogByConfig prepare log dir failed, path=[%s], err=[%v]", c.Path, err)
	}

	logFilePath := path.Join(c.Path, c.Name+".log")
	rotateWriter, err := rotatelogs.New(
		logFilePath+".%Y%m%d",
		rotatelogs.WithLinkName(logFilePath),
		rotatelogs.WithMaxAge(xutil.ToDuration(c.MaxAge)),
		rotatelogs.WithRotationTime(xutil.ToDuration(c.RotateTime)),
	)
	if err != nil {
		return fmt.Errorf("XAscii initXLogByConfig invoke rotatelogs.New failed, err=[%v]", err)
	}

	var fileWriter io.WriteCloser = rotateWriter
	if !c.DisableAsync {
		fileWriter = newAsyncWriter(rotateWriter, c.AsyncBufferSize, c.AsyncDropWhenFull)
	}

	// 最后关闭，保证其他 BeforeStop 的日志能落盘
	xhook.BeforeStop(fileWriter.Close, xhook.Order(1000))

	loc := time.Local
	if c.Timezone != "Local" {
		if l, err := time.LoadLocation(c.Timezone); err == nil {
			loc = l
		} else {
			xutil.WarnIfEnableDebug("XAscii initXLogByConfig load timezone [%s] failed, using Local timezone, err=[%v]", c.Timezone, err)
		}
	}

	logrus.SetOutput(io.Discard)
	logrus.SetFormatter(zoneFormatter{
		Formatter: &logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.999",
			CallerPrettyfier: func(*runtime.Frame) (function string, file string) {
				return "", ""
			},
		},
		Location: loc,
	})

	logrus.AddHook(&xLogHook{
		ServerName: xconfig.GetServerName(),
		Pid:        os.Getpid(),
		Console:    c.Console,
		RawConsole: c.ConsoleFormatIsRaw,
		Writer:     os.Stderr,
	})

	logrus.AddHook(&logwriter.Hook{
		Writer:    fileWriter,
		LogLevels: resolveLevels(c.Level),
	})

	l, err := logrus.ParseLevel(c.Level)
	if err != nil {
		l = logrus.InfoLevel
	}
	logrus.SetLevel(l)

	return nil
}

func getConfig() (*Config, error) {
	c := &Config{}
	if err := xconfig.UnmarshalConfig(XLogConfigKey, c); err != nil {
		return nil, err
	}
	return configMergeDefault(c), nil
}

var levelMapping = map[string][]logrus.Level{
	"debug": {logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel, logrus.InfoLevel, logrus.DebugLevel},
	"info":  {logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel, logrus.InfoLevel},
	"warn":  {logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel},
	"error": {logrus.FatalLevel, logrus.ErrorLevel},
	"fatal": {logrus.FatalLevel},
}

func resolveLevels(l string) []logrus.Level {
	if levels, ok := levelMapping[strings.ToLower(l)]; ok {
		return levels
	}
	return levelMapping["info"]
}
