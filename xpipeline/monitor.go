package xpipeline

import (
	"context"
	"sync"
	"time"

	"github.com/xiaoshicae/xascii/xlog"
)

// StepEvent 某个阶段 goroutine 结束
type StepEvent struct {
	PipelineName string
	StageName    string
	Err          error
	Duration     time.Duration
}

// PipelineEvent 所有阶段结束
type PipelineEvent struct {
	PipelineName string
	Result       ResultSummary
	Duration     time.Duration
}

// Monitor 回调来自各阶段 goroutine，实现需并发安全
type Monitor interface {
	OnStageDone(ctx context.Context, event *StepEvent)
	OnPipelineDone(ctx context.Context, event *PipelineEvent)
}

type defaultMonitor struct{}

func (d *defaultMonitor) OnStageDone(ctx context.Context, e *StepEvent) {
	if e.Err != nil {
		xlog.Warn(ctx, "XAscii pipeline stage failed, pipeline=[%s], stage=[%s], duration=[%s], err=[%v]",
			e.PipelineName, e.StageName, e.Duration, e.Err, xlog.Stage(e.StageName))
		return
	}
	xlog.Info(ctx, "XAscii pipeline stage stopped, pipeline=[%s], stage=[%s], duration=[%s]",
		e.PipelineName, e.StageName, e.Duration, xlog.Stage(e.StageName))
}

func (d *defaultMonitor) OnPipelineDone(ctx context.Context, e *PipelineEvent) {
	status := "success"
	if !e.Result.Success() {
		status = "failed"
	}
	xlog.Info(ctx, "XAscii pipeline done, pipeline=[%s], duration=[%s], status=[%s], result=[%s]",
		e.PipelineName, e.Duration, status, e.Result)
}

var (
	defaultMonitorInstance Monitor = &defaultMonitor{}
	monitorMu              sync.RWMutex
)

// SetDefaultMonitor 替换内置的日志实现
func SetDefaultMonitor(m Monitor) {
	monitorMu.Lock()
	defer monitorMu.Unlock()
	defaultMonitorInstance = m
}

func GetDefaultMonitor() Monitor {
	monitorMu.RLock()
	defer monitorMu.RUnlock()
	return defaultMonitorInstance
}
