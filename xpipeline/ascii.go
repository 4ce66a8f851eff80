package xpipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/xiaoshicae/xascii/xconvert"
	"github.com/xiaoshicae/xascii/xflow"
	"github.com/xiaoshicae/xascii/xframe"
	"github.com/xiaoshicae/xascii/xlog"
	"github.com/xiaoshicae/xascii/xqueue"
	"github.com/xiaoshicae/xascii/xshutdown"
	"github.com/xiaoshicae/xascii/xsink"
	"github.com/xiaoshicae/xascii/xsource"
	"github.com/xiaoshicae/xascii/xtrace"
)

const pipelineName = "xascii"

// Job 一次完整的 视频 -> 字符画 运行
type Job struct {
	Source    xsource.Source
	Converter *xconvert.Converter
	Sink      xsink.Sink

	// Coordinator 为空时新建；播放器的退出回调需要提前拿到它
	Coordinator *xshutdown.Coordinator

	// OnSnapshot 每次统计与运行结束时调用
	OnSnapshot func(*Snapshot)
}

type Report struct {
	RunID  string
	Result *RunResult
	Final  *Snapshot
}

// Execute 打开 Source 与 Sink，运行 source -> conversion -> sink 三个阶段直到结束
//
// 任一端打开失败都直接返回，不会产生任何帧，已打开的一端会被关闭。
// 无论正常结束还是中止，Sink 都会在所有阶段停止后 Close，编码器借此完成输出文件。
func Execute(ctx context.Context, job *Job) (report *Report, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := GetConfig()
	coord := job.Coordinator
	if coord == nil {
		coord = xshutdown.NewCoordinator()
	}

	runID := uuid.NewString()
	report = &Report{RunID: runID}
	ctx = xlog.CtxWithRun(ctx, runID)
	ctx, span := xtrace.Start(ctx, "xascii.run",
		attribute.String("run_id", runID),
		attribute.String("source", job.Source.Name()),
		attribute.String("sink", job.Sink.Name()),
	)
	defer func() { xtrace.End(span, err) }()

	unbind := coord.Bind(ctx)
	defer unbind()

	// Abort 后取消 runCtx，解除 Source 在子进程读取上的阻塞
	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	go func() {
		select {
		case <-coord.AbortedCh():
			cancel(coord.Cause())
		case <-runCtx.Done():
		}
	}()

	if err := openEnds(ctx, runCtx, job); err != nil {
		xlog.Error(ctx, "XAscii pipeline startup failed, err=[%v]", err)
		return report, err
	}
	// 阶段之外的 panic 也要还原终端、完成输出文件
	var closeErr error
	closeOnce := sync.OnceFunc(func() { closeErr = closeEnds(ctx, job) })
	defer closeOnce()

	raw := xqueue.New[*xframe.RawFrame]()
	glyph := xqueue.New[*xframe.GlyphFrame]()
	defer raw.Close()
	defer glyph.Close()
	coord.Watch(raw, glyph)

	sourceSelf := coord.NewStage(xsource.StageName)
	convSelf := coord.NewStage(xconvert.StageName)
	sinkSelf := coord.NewStage(xsink.StageName)
	poll := cfg.pollInterval()

	sourceStage := &xsource.Stage{Source: job.Source, Out: raw, Coordinator: coord, Self: sourceSelf}
	convStage := &xconvert.Stage{
		Converter: job.Converter, In: raw, Out: glyph,
		Coordinator: coord, Self: convSelf, Upstream: sourceSelf, PollInterval: poll,
	}
	sinkStage := &xsink.Stage{
		Sink: job.Sink, In: glyph,
		Coordinator: coord, Self: sinkSelf, Upstream: convSelf, PollInterval: poll,
	}

	started := time.Now()
	collect := func() *Snapshot {
		return &Snapshot{
			RunID:     runID,
			Input:     job.Source.Name(),
			Sink:      job.Sink.Name(),
			Elapsed:   time.Since(started).Round(time.Millisecond).String(),
			Raw:       raw.Stats(),
			Glyph:     glyph.Stats(),
			Stages:    coord.States(),
			Converter: job.Converter.Stats(),
			Consumed:  sinkStage.Consumed(),
			Stopping:  coord.IsSet(),
			Aborted:   coord.Aborted(),
		}
	}
	rep := newReporter(cfg.statsInterval(), collect, job.OnSnapshot)
	rep.start(ctx)
	stopReporter := sync.OnceFunc(rep.Stop)
	defer stopReporter()

	result := New(pipelineName, coord, sourceStage, convStage, sinkStage).Run(runCtx)
	stopReporter()
	report.Result = result

	closeOnce()

	final := collect()
	final.Done = true
	report.Final = final
	rep.report(ctx, final)

	if err := result.Err(); err != nil {
		return report, err
	}
	return report, closeErr
}

type startup struct {
	ctx    context.Context
	runCtx context.Context
	job    *Job
}

// openEnds Source 在 runCtx 下打开，Abort 会终止它；
// Sink 不随 Abort 取消，保证中止后仍能完成输出文件
func openEnds(ctx, runCtx context.Context, job *Job) error {
	flow := xflow.New[*startup]("startup",
		&xflow.Step[*startup]{
			StepName:   "open-" + xsource.StageName,
			Dep:        xflow.Strong,
			ProcessFn:  func(_ context.Context, s *startup) error { return s.job.Source.Open(s.runCtx) },
			RollbackFn: func(_ context.Context, s *startup) error { return s.job.Source.Close() },
		},
		&xflow.Step[*startup]{
			StepName:   "open-" + xsink.StageName,
			Dep:        xflow.Strong,
			ProcessFn:  func(_ context.Context, s *startup) error { return s.job.Sink.Open(context.WithoutCancel(s.ctx)) },
			RollbackFn: func(_ context.Context, s *startup) error { return s.job.Sink.Close() },
		},
	)
	result := flow.Execute(ctx, &startup{ctx: ctx, runCtx: runCtx, job: job})
	if result.Success() {
		return nil
	}
	var se *xflow.StepError
	if errors.As(result.Err, &se) {
		return se.Err
	}
	return result.Err
}

// closeEnds Sink 先关闭，终端先还原再回收解码进程
func closeEnds(ctx context.Context, job *Job) error {
	sinkErr := job.Sink.Close()
	if sinkErr != nil {
		xlog.Error(ctx, "XAscii sink close failed, err=[%v]", sinkErr, xlog.Stage(xsink.StageName))
	}
	sourceErr := job.Source.Close()
	if sourceErr != nil {
		xlog.Warn(ctx, "XAscii source close failed, err=[%v]", sourceErr, xlog.Stage(xsource.StageName))
	}
	return sinkErr
}
