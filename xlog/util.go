package xlog

import (
	"context"

	"github.com/xiaoshicae/xascii/xconfig"
	"github.com/xiaoshicae/xascii/xutil"

	"github.com/sirupsen/logrus"
)

type xlogCtxKVContainerKey struct{}

func Error(ctx context.Context, msg string, args ...any) {
	RawLog(ctx, logrus.ErrorLevel, msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	RawLog(ctx, logrus.WarnLevel, msg, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	RawLog(ctx, logrus.InfoLevel, msg, args...)
}

func Debug(ctx context.Context, msg string, args ...any) {
	RawLog(ctx, logrus.DebugLevel, msg, args...)
}

// RawLog args 中的 Option 作为附加字段，其余作为格式化参数
func RawLog(ctx context.Context, level logrus.Level, msg string, args ...any) {
	if ctx == nil {
		return
	}

	if len(args) == 0 {
		logrus.WithContext(ctx).Log(level, msg)
		return
	}

	logArgs := make([]any, 0, len(args))
	opts := make([]Option, 0, 2)
	for _, arg := range args {
		if opt, ok := arg.(Option); ok {
			opts = append(opts, opt)
		} else {
			logArgs = append(logArgs, arg)
		}
	}

	if len(opts) == 0 {
		logrus.WithContext(ctx).Logf(level, msg, logArgs...)
		return
	}

	fields := make(logrus.Fields, len(opts))
	for _, o := range opts {
		o(fields)
	}

	logrus.WithContext(ctx).WithFields(fields).Logf(level, msg, logArgs...)
}

// CtxWithKV 向 ctx 注入 kv，之后经该 ctx 打的日志都会带上
// 每次返回新的 map，不修改父 ctx 中的数据
func CtxWithKV(ctx context.Context, kvs map[string]any) context.Context {
	old := kvFromCtx(ctx)
	merged := make(map[string]any, len(old)+len(kvs))
	for k, v := range old {
		merged[k] = v
	}
	for k, v := range kvs {
		merged[k] = v
	}
	return context.WithValue(ctx, xlogCtxKVContainerKey{}, merged)
}

// CtxWithRun 标记一次流水线运行，run 下所有阶段的日志都带 run_id
func CtxWithRun(ctx context.Context, runID string) context.Context {
	return CtxWithKV(ctx, map[string]any{FieldRunID: runID})
}

// CtxWithStage 标记当前阶段，覆盖父 ctx 上的 stage
func CtxWithStage(ctx context.Context, stage string) context.Context {
	return CtxWithKV(ctx, map[string]any{FieldStage: stage})
}

func kvFromCtx(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	kvs, _ := ctx.Value(xlogCtxKVContainerKey{}).(map[string]any)
	return kvs
}

func XLogLevel() string {
	return xutil.GetOrDefault(xconfig.GetString(XLogConfigKey+".Level"), "info")
}
