// Package xpipeline 启动并回收流水线的各个阶段
package xpipeline

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiaoshicae/xascii/xlog"
	"github.com/xiaoshicae/xascii/xshutdown"
	"github.com/xiaoshicae/xascii/xtrace"
)

// Pipeline 每个 Processor 一个 goroutine，Run 阻塞到全部结束
type Pipeline struct {
	Name        string
	Processors  []Processor
	Coordinator *xshutdown.Coordinator
	// Monitor 为空时使用 GetDefaultMonitor
	Monitor Monitor
}

func New(name string, coord *xshutdown.Coordinator, processors ...Processor) *Pipeline {
	return &Pipeline{
		Name:        name,
		Processors:  processors,
		Coordinator: coord,
	}
}

// Run 任一阶段出错或 panic 都会 Abort 整个运行，其余阶段随之退出
func (p *Pipeline) Run(ctx context.Context) *RunResult {
	if ctx == nil {
		ctx = context.Background()
	}
	coord := p.Coordinator
	if coord == nil {
		coord = xshutdown.NewCoordinator()
		p.Coordinator = coord
	}
	monitor := p.resolveMonitor()

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		stepErrors []*StepError
	)
	pipelineStart := time.Now()

	for _, proc := range p.Processors {
		wg.Add(1)
		go func(pr Processor) {
			defer wg.Done()

			stageCtx, span := xtrace.Start(xlog.CtxWithStage(ctx, pr.Name()), "xascii.stage", attribute.String("stage", pr.Name()))
			start := time.Now()
			err := safeProcess(pr, stageCtx)
			xtrace.End(span, err)

			if err != nil {
				mu.Lock()
				stepErrors = append(stepErrors, &StepError{StageName: pr.Name(), Err: err})
				mu.Unlock()
				coord.Abort(err)
			}

			if monitor != nil {
				monitor.OnStageDone(stageCtx, &StepEvent{
					PipelineName: p.Name,
					StageName:    pr.Name(),
					Err:          err,
					Duration:     time.Since(start),
				})
			}
		}(proc)
	}
	wg.Wait()

	result := &RunResult{Errors: stepErrors, Aborted: coord.Aborted(), Cause: coord.Cause()}
	if monitor != nil {
		monitor.OnPipelineDone(ctx, &PipelineEvent{
			PipelineName: p.Name,
			Result:       result,
			Duration:     time.Since(pipelineStart),
		})
	}
	return result
}

func (p *Pipeline) resolveMonitor() Monitor {
	if GetConfig().DisableMonitor {
		return nil
	}
	if p.Monitor != nil {
		return p.Monitor
	}
	return GetDefaultMonitor()
}

func safeProcess(pr Processor, ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return pr.Run(ctx)
}
