// Package xconvert 把原始像素帧转换为字符帧
package xconvert

import (
	"sync/atomic"

	"github.com/xiaoshicae/xascii/xerror"
	"github.com/xiaoshicae/xascii/xframe"
	"github.com/xiaoshicae/xascii/xglyph"
)

// Stats 转换计数，可在其他 goroutine 读取
type Stats struct {
	Converted   uint64 `json:"converted"`
	Malformed   uint64 `json:"malformed"`
	Evaluations int64  `json:"glyph_evaluations"`
}

// Converter 持有一个 Mapper，只能在单个 goroutine 中调用 Convert
type Converter struct {
	mapper *xglyph.Mapper
	cols   int
	rows   int
	mode   xframe.ColorMode

	converted   atomic.Uint64
	malformed   atomic.Uint64
	evaluations atomic.Int64
}

// NewConverter cols/rows 为运行开始时查询到的输出尺寸，运行期间不变
func NewConverter(mapper *xglyph.Mapper, cols, rows int, mode xframe.ColorMode) *Converter {
	return &Converter{
		mapper: mapper,
		cols:   max(cols, 0),
		rows:   max(rows, 0),
		mode:   mode,
	}
}

func (c *Converter) Cols() int {
	return c.cols
}

func (c *Converter) Rows() int {
	return c.rows
}

// Convert 缩放、取亮度、映射字符，返回封存后的帧
// 畸形帧返回 ErrMalformedFrame，由调用方决定替代策略
func (c *Converter) Convert(raw *xframe.RawFrame) (*xframe.GlyphFrame, error) {
	if err := raw.Validate(); err != nil {
		c.malformed.Add(1)
		return nil, xerror.New("xconvert", "convert", err)
	}

	b := xframe.NewBuilder(c.cols, c.rows, raw.Seq)
	if c.cols > 0 && c.rows > 0 {
		small := Resample(raw, c.cols, c.rows)
		withColor := c.mode == xframe.ModeColor
		for y := 0; y < c.rows; y++ {
			for x := 0; x < c.cols; x++ {
				r, g, bl := small.Pixel(x, y)
				l := r
				if small.Format == xframe.RGB {
					l = Luma(r, g, bl)
				}
				cell := xframe.GlyphCell{Rune: c.mapper.Map(l)}
				if withColor {
					cell.Color = xframe.Color{R: r, G: g, B: bl}
					cell.HasColor = true
				}
				b.Set(x, y, cell)
			}
		}
	}

	c.converted.Add(1)
	c.evaluations.Store(int64(c.mapper.Evaluations()))
	return b.Seal(), nil
}

func (c *Converter) Stats() Stats {
	return Stats{
		Converted:   c.converted.Load(),
		Malformed:   c.malformed.Load(),
		Evaluations: c.evaluations.Load(),
	}
}
