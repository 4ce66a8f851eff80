// Package xflow 按顺序执行一组步骤，Strong 步骤失败时逆序回滚
// 每个步骤一个 span，日志 ctx 上带步骤名作为 stage
package xflow

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiaoshicae/xascii/xlog"
	"github.com/xiaoshicae/xascii/xtrace"
)

type Flow[T any] struct {
	Name       string
	Processors []Processor[T]
	// Monitor 为空时使用 GetDefaultMonitor
	Monitor Monitor
}

func New[T any](name string, processors ...Processor[T]) *Flow[T] {
	return &Flow[T]{
		Name:       name,
		Processors: processors,
	}
}

// AddProcessor 非并发安全，需在 Execute 前完成
func (f *Flow[T]) AddProcessor(processor Processor[T]) {
	f.Processors = append(f.Processors, processor)
}

func (f *Flow[T]) Execute(ctx context.Context, data T) *ExecuteResult {
	if ctx == nil {
		ctx = context.Background()
	}

	monitor := f.resolveMonitor()
	result := &ExecuteResult{}
	flowStart := time.Now()

	succeeded := make([]Processor[T], 0, len(f.Processors))
	for _, p := range f.Processors {
		start := time.Now()
		stepCtx, span := xtrace.Start(xlog.CtxWithStage(ctx, p.Name()), "xascii.startup.step",
			attribute.String("step", p.Name()), attribute.String("dependency", p.Dependency().String()))
		err := safeProcess(p, stepCtx, data)
		xtrace.End(span, err)
		if monitor != nil {
			monitor.OnProcessDone(stepCtx, &StepEvent{
				FlowName:      f.Name,
				ProcessorName: p.Name(),
				Dependency:    p.Dependency(),
				Err:           err,
				Duration:      time.Since(start),
			})
		}

		if err == nil {
			succeeded = append(succeeded, p)
			continue
		}

		se := &StepError{ProcessorName: p.Name(), Dependency: p.Dependency(), Err: err}
		if p.Dependency() == Weak {
			result.SkippedErrors = append(result.SkippedErrors, se)
			continue
		}

		result.Err = se
		f.rollback(ctx, data, succeeded, result, monitor)
		break
	}

	if monitor != nil {
		monitor.OnFlowDone(ctx, &FlowEvent{FlowName: f.Name, Result: result, Duration: time.Since(flowStart)})
	}
	return result
}

// rollback 逆序回滚，回滚错误不会中断后续回滚
func (f *Flow[T]) rollback(ctx context.Context, data T, succeeded []Processor[T], result *ExecuteResult, monitor Monitor) {
	result.Rolled = true

	for i := len(succeeded) - 1; i >= 0; i-- {
		p := succeeded[i]
		start := time.Now()
		stepCtx := xlog.CtxWithStage(ctx, p.Name())
		err := safeRollback(p, stepCtx, data)
		if monitor != nil {
			monitor.OnRollbackDone(stepCtx, &StepEvent{
				FlowName:      f.Name,
				ProcessorName: p.Name(),
				Dependency:    p.Dependency(),
				Err:           err,
				Duration:      time.Since(start),
			})
		}
		if err != nil {
			result.RollbackErrors = append(result.RollbackErrors, &StepError{
				ProcessorName: p.Name(),
				Dependency:    p.Dependency(),
				Err:           err,
			})
		}
	}
}

func (f *Flow[T]) resolveMonitor() Monitor {
	if GetConfig().DisableMonitor {
		return nil
	}
	if f.Monitor != nil {
		return f.Monitor
	}
	return GetDefaultMonitor()
}

func safeProcess[T any](p Processor[T], ctx context.Context, data T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return p.Process(ctx, data)
}

func safeRollback[T any](p Processor[T], ctx context.Context, data T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return p.Rollback(ctx, data)
}
