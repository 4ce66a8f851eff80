package xsink

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/xiaoshicae/xascii/xcache"
	"github.com/xiaoshicae/xascii/xframe"
)

var (
	background  = color.RGBA{A: 0xff}
	defaultInk  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	maskKeyHead = "basicfont7x13:"
)

// Rasterizer 把字符帧画成图片，每个字符占一个固定大小的格子
// 相同输入总是得到相同像素
type Rasterizer struct {
	face   *basicfont.Face
	cellW  int
	cellH  int
	ascent int
	masks  *xcache.TypedCache[*image.Alpha]
}

// NewRasterizer masks 为 nil 时不缓存字形
func NewRasterizer(masks *xcache.TypedCache[*image.Alpha]) *Rasterizer {
	face := basicfont.Face7x13
	return &Rasterizer{
		face:   face,
		cellW:  face.Advance,
		cellH:  face.Height,
		ascent: face.Ascent,
		masks:  masks,
	}
}

// CellSize 单个字符格子的像素尺寸
func (r *Rasterizer) CellSize() (int, int) {
	return r.cellW, r.cellH
}

// Bounds cols x rows 网格对应的图片尺寸
func (r *Rasterizer) Bounds(cols, rows int) image.Rectangle {
	return image.Rect(0, 0, cols*r.cellW, rows*r.cellH)
}

// Render 画到新图片上，图片尺寸由帧的行列数决定
func (r *Rasterizer) Render(frame *xframe.GlyphFrame) *image.RGBA {
	img := image.NewRGBA(r.Bounds(frame.Cols(), frame.Rows()))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for row := 0; row < frame.Rows(); row++ {
		for col := 0; col < frame.Cols(); col++ {
			cell := frame.At(col, row)
			if cell.Rune == ' ' || cell.Rune == 0 {
				continue
			}
			ink := defaultInk
			if cell.HasColor {
				ink = color.RGBA{R: cell.Color.R, G: cell.Color.G, B: cell.Color.B, A: 0xff}
			}
			dst := image.Rect(col*r.cellW, row*r.cellH, (col+1)*r.cellW, (row+1)*r.cellH)
			draw.DrawMask(img, dst, image.NewUniform(ink), image.Point{}, r.mask(cell.Rune), image.Point{}, draw.Over)
		}
	}
	return img
}

func (r *Rasterizer) mask(ch rune) *image.Alpha {
	key := maskKeyHead + string(ch)
	if r.masks != nil {
		if m, ok := r.masks.Get(key); ok {
			return m
		}
	}

	m := image.NewAlpha(image.Rect(0, 0, r.cellW, r.cellH))
	d := &font.Drawer{
		Dst:  m,
		Src:  image.Opaque,
		Face: r.face,
		Dot:  fixed.P(0, r.ascent),
	}
	d.DrawString(string(ch))

	if r.masks != nil {
		r.masks.SetWithTTL(key, m, 0)
	}
	return m
}
