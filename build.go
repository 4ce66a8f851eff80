package xascii

import (
	"image"

	"github.com/xiaoshicae/xascii/xcache"
	"github.com/xiaoshicae/xascii/xconvert"
	"github.com/xiaoshicae/xascii/xerror"
	"github.com/xiaoshicae/xascii/xframe"
	"github.com/xiaoshicae/xascii/xglyph"
	"github.com/xiaoshicae/xascii/xpipeline"
	"github.com/xiaoshicae/xascii/xshutdown"
	"github.com/xiaoshicae/xascii/xsink"
	"github.com/xiaoshicae/xascii/xsource"
	"github.com/xiaoshicae/xascii/xsurface"
	"github.com/xiaoshicae/xascii/xutil"
)

// buildJob 按配置组装一次运行，任何配置错误都在打开终端或输出文件之前返回
func buildJob(c *Config, coord *xshutdown.Coordinator) (*xpipeline.Job, error) {
	if c.Input == "" {
		return nil, xerror.Newf("xascii", "config", "XAscii.Input is required: %w", xerror.ErrInvalidConfig)
	}
	if !xutil.FileExist(c.Input) {
		return nil, xerror.Newf("xascii", "config", "input [%s] not found: %w", c.Input, xerror.ErrSourceOpen)
	}

	mode, err := xframe.ParseColorMode(c.Mode)
	if err != nil {
		return nil, xerror.Newf("xascii", "config", "%v: %w", err, xerror.ErrInvalidConfig)
	}
	ramp, err := buildRamp(c)
	if err != nil {
		return nil, err
	}

	size := outputSize(c)
	if !size.Valid() {
		return nil, xerror.Newf("xascii", "config", "invalid output size [%s]: %w", size, xerror.ErrInvalidConfig)
	}

	return &xpipeline.Job{
		Source:      xsource.New(c.Input, mode.PixelFormat()),
		Converter:   xconvert.NewConverter(xglyph.NewMapper(ramp), size.Cols, size.Rows, mode),
		Sink:        buildSink(c, size, coord),
		Coordinator: coord,
	}, nil
}

func buildRamp(c *Config) (xglyph.Ramp, error) {
	var ramp xglyph.Ramp
	if c.Ramp != "" {
		r, err := xglyph.NewRamp(c.Ramp)
		if err != nil {
			return nil, xerror.Newf("xascii", "config", "%v: %w", err, xerror.ErrInvalidConfig)
		}
		ramp = r
	} else {
		d, err := xglyph.ParseDensity(c.Density)
		if err != nil {
			return nil, xerror.Newf("xascii", "config", "%v: %w", err, xerror.ErrInvalidConfig)
		}
		ramp = d.Ramp()
	}
	if c.Invert {
		ramp = ramp.Inverted()
	}
	return ramp, nil
}

// outputSize 播放时以终端为准，编码时没有终端可查
func outputSize(c *Config) xsurface.Size {
	if c.Output == "" {
		return xsurface.Resolve(c.Cols, c.Rows, xsurface.Terminal())
	}
	return xsurface.Resolve(c.Cols, c.Rows, xsurface.Size{Cols: defaultEncoderCols, Rows: defaultEncoderRows})
}

func buildSink(c *Config, size xsurface.Size, coord *xshutdown.Coordinator) xsink.Sink {
	if c.Output == "" {
		return xsink.NewPlayer(xsink.PlayerOptions{
			FPS:    c.FPS,
			OnQuit: func() { coord.Abort(nil) },
		})
	}
	return xsink.NewEncoder(xsink.EncoderOptions{
		Path:  c.Output,
		FPS:   c.FPS,
		Cols:  size.Cols,
		Rows:  size.Rows,
		Masks: xcache.Of[*image.Alpha](),
	})
}
