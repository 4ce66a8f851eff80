package xutil

import (
	"os"
	"path"
	"runtime"
	"strconv"

	"github.com/sirupsen/logrus"
)

// 启动阶段的 debug 日志，XASCII_ENABLE_DEBUG=true 时打到 stderr
// 播放模式下 stdout 属于终端画面，不能往里写；xlog 初始化前也只能用这里

var debugLogger = newDebugLogger()

func newDebugLogger() *logrus.Logger {
	l := logrus.New()
	l.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	}
	l.SetLevel(logrus.InfoLevel)
	l.SetOutput(os.Stderr)
	return l
}

func ErrorIfEnableDebug(msg string, args ...any) {
	logIfEnableDebug(logrus.ErrorLevel, msg, args...)
}

func InfoIfEnableDebug(msg string, args ...any) {
	logIfEnableDebug(logrus.InfoLevel, msg, args...)
}

func WarnIfEnableDebug(msg string, args ...any) {
	logIfEnableDebug(logrus.WarnLevel, msg, args...)
}

func logIfEnableDebug(level logrus.Level, msg string, args ...any) {
	if !EnableDebug() {
		return
	}
	entry := debugLogger.WithField("phase", "boot")
	// 0: logIfEnableDebug 1: XxxIfEnableDebug 2: 调用方
	if _, file, line, ok := runtime.Caller(2); ok {
		entry = entry.WithField("caller", path.Base(file)+":"+strconv.Itoa(line))
	}
	entry.Logf(level, msg, args...)
}
