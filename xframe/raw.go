// Package xframe 流水线中传递的帧：解码后的原始像素帧与字符帧
package xframe

import (
	"fmt"
	"math"

	"github.com/xiaoshicae/xascii/xerror"
)

// PixelFormat 原始帧的像素排列
type PixelFormat int

const (
	// Gray 每像素 1 字节亮度
	Gray PixelFormat = iota
	// RGB 每像素 3 字节，R G B 顺序
	RGB
)

func (p PixelFormat) BytesPerPixel() int {
	if p == RGB {
		return 3
	}
	return 1
}

func (p PixelFormat) String() string {
	if p == RGB {
		return "rgb24"
	}
	return "gray"
}

// ColorMode 输出模式
type ColorMode string

const (
	ModeGray  ColorMode = "gray"
	ModeColor ColorMode = "color"
)

// ParseColorMode 空字符串视为 gray
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(s) {
	case "", ModeGray:
		return ModeGray, nil
	case ModeColor:
		return ModeColor, nil
	default:
		return "", fmt.Errorf("unknown color mode [%s], expect gray or color", s)
	}
}

// PixelFormat 该模式下要求解码器输出的格式
func (m ColorMode) PixelFormat() PixelFormat {
	if m == ModeColor {
		return RGB
	}
	return Gray
}

// RawFrame 解码器输出的一帧，行优先，无行尾填充
// 入队后不再修改，由转换阶段独占
type RawFrame struct {
	Data   []byte
	Width  int
	Height int
	Format PixelFormat
	Seq    uint64
}

// Validate 检查 Data 长度是否等于 宽*高*每像素字节数
func (f *RawFrame) Validate() error {
	if f == nil {
		return xerror.Newf("xframe", "validate", "nil frame: %w", xerror.ErrMalformedFrame)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return xerror.Newf("xframe", "validate", "seq=%d, size=%dx%d: %w", f.Seq, f.Width, f.Height, xerror.ErrMalformedFrame)
	}
	bpp := f.Format.BytesPerPixel()
	if f.Width > math.MaxInt/f.Height/bpp {
		return xerror.Newf("xframe", "validate", "seq=%d, size=%dx%d overflows: %w", f.Seq, f.Width, f.Height, xerror.ErrMalformedFrame)
	}
	want := f.Width * f.Height * bpp
	if len(f.Data) != want {
		return xerror.Newf("xframe", "validate", "seq=%d, size=%dx%d, format=%s, want %d bytes, got %d: %w",
			f.Seq, f.Width, f.Height, f.Format, want, len(f.Data), xerror.ErrMalformedFrame)
	}
	return nil
}

// Pixel 返回 (x, y) 处的 RGB，灰度帧三个分量相同
// 调用前需保证 Validate 通过
func (f *RawFrame) Pixel(x, y int) (r, g, b uint8) {
	bpp := f.Format.BytesPerPixel()
	i := (y*f.Width + x) * bpp
	if bpp == 1 {
		v := f.Data[i]
		return v, v, v
	}
	return f.Data[i], f.Data[i+1], f.Data[i+2]
}
