package xutil

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// SpanIDsFromCtx ctx 上当前 span 的 trace id 与 span id，没有有效 span 时都为空
func SpanIDsFromCtx(ctx context.Context) (traceID, spanID string) {
	if ctx == nil {
		return "", ""
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", ""
	}
	return sc.TraceID().String(), sc.SpanID().String()
}
