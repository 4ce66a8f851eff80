package xsource

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"os"

	"github.com/xiaoshicae/xascii/xerror"
	"github.com/xiaoshicae/xascii/xframe"
)

// GIFSource 纯 Go 解码动图，不依赖 ffmpeg
// 每一帧都叠加到整幅画布上输出，处理 Disposal 方式
type GIFSource struct {
	Path   string
	Format xframe.PixelFormat

	g      *gif.GIF
	canvas *image.RGBA
	pos    int
}

func NewGIFSource(path string, format xframe.PixelFormat) *GIFSource {
	return &GIFSource{Path: path, Format: format}
}

func (s *GIFSource) Name() string {
	return "gif"
}

func (s *GIFSource) Open(context.Context) error {
	f, err := os.Open(s.Path)
	if err != nil {
		return xerror.Newf("xsource", "open", "open gif [%s] failed, err=[%v]: %w", s.Path, err, xerror.ErrSourceOpen)
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return xerror.Newf("xsource", "open", "decode gif [%s] failed, err=[%v]: %w", s.Path, err, xerror.ErrSourceOpen)
	}
	return s.openDecoded(g)
}

func (s *GIFSource) openDecoded(g *gif.GIF) error {
	if len(g.Image) == 0 {
		return xerror.Newf("xsource", "open", "gif [%s] has no frame: %w", s.Path, xerror.ErrSourceOpen)
	}
	w, h := g.Config.Width, g.Config.Height
	if w <= 0 || h <= 0 {
		b := g.Image[0].Bounds()
		w, h = b.Max.X, b.Max.Y
	}
	s.g = g
	s.canvas = image.NewRGBA(image.Rect(0, 0, w, h))
	s.pos = 0
	return nil
}

func (s *GIFSource) Next(ctx context.Context) (*xframe.RawFrame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.g == nil {
		return nil, xerror.Newf("xsource", "next", "source not opened: %w", xerror.ErrDecode)
	}
	if s.pos >= len(s.g.Image) {
		return nil, io.EOF
	}

	i := s.pos
	s.pos++
	frame := s.g.Image[i]

	var previous *image.RGBA
	disposal := byte(0)
	if i < len(s.g.Disposal) {
		disposal = s.g.Disposal[i]
	}
	if disposal == gif.DisposalPrevious {
		previous = image.NewRGBA(s.canvas.Bounds())
		draw.Draw(previous, previous.Bounds(), s.canvas, image.Point{}, draw.Src)
	}

	draw.Draw(s.canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
	raw := toRaw(s.canvas, s.Format)

	switch disposal {
	case gif.DisposalBackground:
		draw.Draw(s.canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
	case gif.DisposalPrevious:
		s.canvas = previous
	}
	return raw, nil
}

func (s *GIFSource) Close() error {
	s.g = nil
	s.canvas = nil
	return nil
}

// toRaw 按像素格式展开，透明像素按黑色处理
func toRaw(img *image.RGBA, format xframe.PixelFormat) *xframe.RawFrame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	bpp := format.BytesPerPixel()
	data := make([]byte, 0, w*h*bpp)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if format == xframe.RGB {
				data = append(data, c.R, c.G, c.B)
				continue
			}
			data = append(data, color.GrayModel.Convert(c).(color.Gray).Y)
		}
	}
	return &xframe.RawFrame{Data: data, Width: w, Height: h, Format: format}
}
