package xstatus

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/xiaoshicae/xascii/xlog"
)

const (
	tracerName    = "github.com/xiaoshicae/xascii/xstatus"
	traceIdHeader = "X-Trace-Id"
)

// traceMiddleware 每个请求一个 server span，上游带了 traceparent/b3 时接在上游链路下
func traceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		// 未匹配任何路由时 FullPath 为空
		if route == "" {
			route = c.Request.URL.Path
		}

		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := otel.Tracer(tracerName).Start(ctx, fmt.Sprintf("%s %s", c.Request.Method, route),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", c.Request.Method),
				attribute.String("http.route", route),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)

		// header 必须在 c.Next 之前写入，之后 body 已发送
		if span.SpanContext().IsValid() {
			c.Header(traceIdHeader, span.SpanContext().TraceID().String())
		}

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		if len(c.Errors) > 0 {
			span.SetAttributes(attribute.String("gin.errors", c.Errors.String()))
		}
	}
}

// accessLogMiddleware 请求结束后记一条访问日志，skipPaths 以 / 结尾时按前缀匹配
func accessLogMiddleware(skipPaths ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if shouldSkipLog(c.Request.URL.Path, skipPaths) {
			c.Next()
			return
		}

		begin := time.Now()
		c.Next()
		elapsed := time.Since(begin)

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		xlog.Info(c.Request.Context(), "XAscii status request processed, %s %s, status=[%d]", c.Request.Method, route, c.Writer.Status(),
			xlog.KV("client_ip", c.ClientIP()),
			xlog.KV("latency_ms", elapsed.Milliseconds()),
			xlog.KV("response_size", c.Writer.Size()),
		)
	}
}

func shouldSkipLog(path string, skipPaths []string) bool {
	for _, skip := range skipPaths {
		if strings.HasSuffix(skip, "/") {
			if strings.HasPrefix(path, skip) {
				return true
			}
		} else if path == skip {
			return true
		}
	}
	return false
}

// recoverMiddleware handler panic 只记日志并返回 500
func recoverMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				xlog.Error(c.Request.Context(), "XAscii status handler panic recover, err=[%v]", r, xlog.KV("path", c.Request.URL.Path))
				if c.Writer.Written() {
					c.Abort()
					return
				}
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}
