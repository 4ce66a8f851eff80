package xlog

import (
	"runtime"
	"strings"
)

const (
	logrusPkgPrefix = "github.com/sirupsen/logrus"
	xlogPkgPrefix   = "github.com/xiaoshicae/xascii/xlog."
	maxCallerDepth  = 25
)

// logCaller 跳过 logrus 与 xlog 自身的栈帧，返回真正打日志的位置
func logCaller() *runtime.Frame {
	pcs := make([]uintptr, maxCallerDepth)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !isLogFrame(f) {
			return &f
		}
		if !more {
			return nil
		}
	}
}

func isLogFrame(f runtime.Frame) bool {
	if strings.HasPrefix(f.Function, logrusPkgPrefix) {
		return true
	}
	return strings.HasPrefix(f.Function, xlogPkgPrefix) && !strings.HasSuffix(f.File, "_test.go")
}
