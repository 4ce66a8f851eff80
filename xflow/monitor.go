package xflow

import (
	"context"
	"time"

	"github.com/xiaoshicae/xascii/xlog"
)

// StepEvent 单个步骤执行或回滚完成
type StepEvent struct {
	FlowName      string
	ProcessorName string
	Dependency    Dependency
	Err           error
	Duration      time.Duration
}

// FlowEvent 整个流程结束（包含回滚）
type FlowEvent struct {
	FlowName string
	Result   *ExecuteResult
	Duration time.Duration
}

type Monitor interface {
	OnProcessDone(ctx context.Context, e *StepEvent)
	OnRollbackDone(ctx context.Context, e *StepEvent)
	OnFlowDone(ctx context.Context, e *FlowEvent)
}

// logMonitor 默认实现，写入 xlog
type logMonitor struct{}

func (m *logMonitor) OnProcessDone(ctx context.Context, e *StepEvent) {
	if e.Err != nil {
		xlog.Error(ctx, "XAscii flow step failed, flow=[%s], processor=[%s], dependency=[%s], duration=[%s], err=[%v]",
			e.FlowName, e.ProcessorName, e.Dependency, e.Duration, e.Err)
		return
	}
	xlog.Info(ctx, "XAscii flow step done, flow=[%s], processor=[%s], dependency=[%s], duration=[%s]",
		e.FlowName, e.ProcessorName, e.Dependency, e.Duration)
}

func (m *logMonitor) OnRollbackDone(ctx context.Context, e *StepEvent) {
	if e.Err != nil {
		xlog.Error(ctx, "XAscii flow rollback failed, flow=[%s], processor=[%s], duration=[%s], err=[%v]",
			e.FlowName, e.ProcessorName, e.Duration, e.Err)
		return
	}
	xlog.Info(ctx, "XAscii flow rollback done, flow=[%s], processor=[%s], duration=[%s]",
		e.FlowName, e.ProcessorName, e.Duration)
}

func (m *logMonitor) OnFlowDone(ctx context.Context, e *FlowEvent) {
	status := "success"
	if !e.Result.Success() {
		status = "failed"
	}
	xlog.Info(ctx, "XAscii flow done, flow=[%s], duration=[%s], status=[%s], rolled=[%t]",
		e.FlowName, e.Duration, status, e.Result.Rolled)
}

var defaultMonitor Monitor = &logMonitor{}

// GetDefaultMonitor 未设置 Flow.Monitor 时使用
func GetDefaultMonitor() Monitor {
	return defaultMonitor
}
