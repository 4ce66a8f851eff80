// Package xsource 视频帧来源与源阶段
package xsource

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/xiaoshicae/xascii/xframe"
)

// Source 按采集顺序产出原始帧
//
// Open 失败属于启动期致命错误（ErrSourceOpen）；
// Next 在输入耗尽时返回 io.EOF，解码失败返回 ErrDecode。
type Source interface {
	Name() string
	Open(ctx context.Context) error
	Next(ctx context.Context) (*xframe.RawFrame, error)
	Close() error
}

// New .gif 走纯 Go 解码，其余交给 ffmpeg
func New(path string, format xframe.PixelFormat) Source {
	if strings.EqualFold(filepath.Ext(path), ".gif") {
		return NewGIFSource(path, format)
	}
	return NewFFmpegSource(path, format)
}
