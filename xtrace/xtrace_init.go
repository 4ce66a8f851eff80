package xtrace

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/xiaoshicae/xascii/xconfig"
	"github.com/xiaoshicae/xascii/xerror"
	"github.com/xiaoshicae/xascii/xhook"
	"github.com/xiaoshicae/xascii/xutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	defaultShutdownTimeout = 5 * time.Second

	xTraceShutdownFunc func() error
)

func init() {
	xhook.BeforeStart(initXTrace, xhook.Order(3))
	xhook.BeforeStop(shutdownXTrace, xhook.Order(900))
}

// SetShutdownTimeout 导出剩余 span 的最长等待时间
func SetShutdownTimeout(timeout time.Duration) {
	if timeout > 0 {
		defaultShutdownTimeout = timeout
	}
}

func initXTrace() error {
	c, err := getConfig()
	if err != nil {
		return xerror.Newf("xtrace", "init", "getConfig failed, err=[%v]", err)
	}

	if !*c.Enable {
		otel.SetTracerProvider(noop.NewTracerProvider())
		xutil.InfoIfEnableDebug("XAscii initXTrace ignored, because of config XTrace.Enable=false")
		return nil
	}

	serviceName := xconfig.GetServerName()
	serviceVersion := xconfig.GetServerVersion()
	xutil.InfoIfEnableDebug("XAscii initXTrace got param: ServiceName:%s, ServiceVersion:%s, File:%s", serviceName, serviceVersion, c.File)

	return initXTraceByConfig(c, serviceName, serviceVersion)
}

func initXTraceByConfig(c *Config, serviceName, serviceVersion string) error {
	r, err := resource.New(
		context.Background(),
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return xerror.Newf("xtrace", "init", "resource.New failed, err=[%v]", err)
	}

	tpOpts := []trace.TracerProviderOption{
		trace.WithSampler(trace.AlwaysSample()),
		trace.WithResource(r),
	}

	var out *os.File
	if c.File != "" {
		if err := xutil.EnsureParentDir(c.File); err != nil {
			return xerror.Newf("xtrace", "init", "prepare dir of [%s] failed, err=[%v]", c.File, err)
		}
		out, err = os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return xerror.Newf("xtrace", "init", "open trace file [%s] failed, err=[%v]", c.File, err)
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(out))
		if err != nil {
			_ = out.Close()
			return xerror.Newf("xtrace", "init", "init exporter failed, err=[%v]", err)
		}
		tpOpts = append(tpOpts, trace.WithBatcher(exporter))
	}

	tp := trace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(NewPropagator())

	xTraceShutdownFunc = func() error {
		ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		err := tp.Shutdown(ctx)
		if out != nil {
			err = errors.Join(err, out.Close())
		}
		return err
	}
	return nil
}

func getConfig() (*Config, error) {
	c := &Config{}
	if err := xconfig.UnmarshalConfig(XTraceConfigKey, c); err != nil {
		return nil, err
	}
	return configMergeDefault(c), nil
}

func shutdownXTrace() error {
	fn := xTraceShutdownFunc
	xTraceShutdownFunc = nil
	if fn == nil {
		return nil
	}
	return fn()
}
