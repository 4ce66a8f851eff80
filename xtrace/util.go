package xtrace

import (
	"context"
	"strings"

	"github.com/xiaoshicae/xascii/xconfig"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	XTraceEnableKey = "XTrace.Enable"

	tracerName = "github.com/xiaoshicae/xascii"
)

func EnableTrace() bool {
	enable := strings.TrimSpace(xconfig.GetString(XTraceEnableKey))
	return strings.ToLower(enable) != "false"
}

// Start 以全局 TracerProvider 开启一个 span
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, oteltrace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, oteltrace.WithAttributes(attrs...))
}

// End 按 err 设置 span 状态后结束
func End(span oteltrace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
