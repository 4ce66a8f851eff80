package xconvert

import (
	"github.com/xiaoshicae/xascii/xframe"
)

// SamplePoint 最近邻采样，目标 (x, y) 对应的源坐标
func SamplePoint(x, y, srcW, srcH, dstW, dstH int) (int, int) {
	return x * srcW / dstW, y * srcH / dstH
}

// Resample 最近邻缩放到 cols x rows，像素格式不变
// 调用前需保证 raw 通过 Validate
func Resample(raw *xframe.RawFrame, cols, rows int) *xframe.RawFrame {
	bpp := raw.Format.BytesPerPixel()
	out := &xframe.RawFrame{
		Data:   make([]byte, cols*rows*bpp),
		Width:  cols,
		Height: rows,
		Format: raw.Format,
		Seq:    raw.Seq,
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			sx, sy := SamplePoint(x, y, raw.Width, raw.Height, cols, rows)
			src := (sy*raw.Width + sx) * bpp
			dst := (y*cols + x) * bpp
			copy(out.Data[dst:dst+bpp], raw.Data[src:src+bpp])
		}
	}
	return out
}

// Luma BT.601 整数权重，结果四舍五入
func Luma(r, g, b uint8) uint8 {
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b) + 500) / 1000)
}
