package xsink

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xiaoshicae/xascii/xcache"
	"github.com/xiaoshicae/xascii/xerror"
	"github.com/xiaoshicae/xascii/xframe"
	"github.com/xiaoshicae/xascii/xlog"
)

// OpenContainerFunc 打开输出容器，测试中可替换为内存实现
type OpenContainerFunc func(ctx context.Context, path string, width, height, fps int) (Container, error)

// EncoderOptions Cols/Rows 为运行开始时确定的网格尺寸
type EncoderOptions struct {
	Path          string
	FPS           int
	Cols          int
	Rows          int
	Masks         *xcache.TypedCache[*image.Alpha]
	OpenContainer OpenContainerFunc
}

// Encoder 把每一帧光栅化后追加到输出容器
// 单帧失败只记日志并跳过，不影响后续帧
type Encoder struct {
	path   string
	fps    int
	cols   int
	rows   int
	open   OpenContainerFunc
	raster *Rasterizer

	container Container
	closeOnce sync.Once
	closeErr  error

	encoded atomic.Uint64
	skipped atomic.Uint64
}

func NewEncoder(opts EncoderOptions) *Encoder {
	open := opts.OpenContainer
	if open == nil {
		open = OpenContainer
	}
	return &Encoder{
		path:   opts.Path,
		fps:    opts.FPS,
		cols:   opts.Cols,
		rows:   opts.Rows,
		open:   open,
		raster: NewRasterizer(opts.Masks),
	}
}

func (e *Encoder) Name() string {
	return "encoder"
}

// Pace 编码不需要限速
func (e *Encoder) Pace() time.Duration {
	return 0
}

func (e *Encoder) Open(ctx context.Context) error {
	b := e.raster.Bounds(e.cols, e.rows)
	if b.Empty() {
		return xerror.Newf("xsink", "open", "invalid output grid %dx%d: %w", e.cols, e.rows, xerror.ErrSinkOpen)
	}
	c, err := e.open(ctx, e.path, b.Dx(), b.Dy(), e.fps)
	if err != nil {
		return err
	}
	e.container = c
	xlog.Info(ctx, "XAscii encoder opened, path=[%s], size=[%dx%d], fps=[%d]", e.path, b.Dx(), b.Dy(), e.fps, xlog.Stage(StageName))
	return nil
}

func (e *Encoder) Consume(ctx context.Context, frame *xframe.GlyphFrame) error {
	if err := e.encode(frame); err != nil {
		e.skipped.Add(1)
		xlog.Warn(ctx, "XAscii encoder skipped frame, err=[%v]", err, xlog.Seq(frame.Seq()), xlog.Stage(StageName))
		return nil
	}
	e.encoded.Add(1)
	return nil
}

// encode 帧的行列数与网格不一致时按网格裁剪或补空白
func (e *Encoder) encode(frame *xframe.GlyphFrame) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = xerror.Newf("xsink", "encode", "panic occurred, %v", r)
		}
	}()
	if frame.Cols() != e.cols || frame.Rows() != e.rows {
		frame = fit(frame, e.cols, e.rows)
	}
	return e.container.WriteFrame(e.raster.Render(frame))
}

// Close 完成输出文件，可重复调用
func (e *Encoder) Close() error {
	e.closeOnce.Do(func() {
		if e.container == nil {
			return
		}
		if err := e.container.Close(); err != nil {
			e.closeErr = xerror.Newf("xsink", "close", "finalize [%s] failed, err=[%v]", e.path, err)
		}
	})
	return e.closeErr
}

// Stats 已编码与跳过的帧数
func (e *Encoder) Stats() (encoded, skipped uint64) {
	return e.encoded.Load(), e.skipped.Load()
}

func fit(frame *xframe.GlyphFrame, cols, rows int) *xframe.GlyphFrame {
	b := xframe.NewBuilder(cols, rows, frame.Seq())
	for row := 0; row < min(rows, frame.Rows()); row++ {
		for col := 0; col < min(cols, frame.Cols()); col++ {
			b.Set(col, row, frame.At(col, row))
		}
	}
	return b.Seal()
}
