package xsink

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xiaoshicae/xascii/xerror"
	"github.com/xiaoshicae/xascii/xutil"
)

// commandContext 便于测试替换
var commandContext = exec.CommandContext

// Container 按顺序接收光栅化后的帧，Close 时完成文件
type Container interface {
	WriteFrame(img *image.RGBA) error
	Close() error
}

// OpenContainer .gif 用纯 Go 写出，其它扩展名交给 ffmpeg
func OpenContainer(ctx context.Context, path string, width, height, fps int) (Container, error) {
	if err := checkWritable(path); err != nil {
		return nil, xerror.Newf("xsink", "open", "output [%s] not writable, err=[%v]: %w", path, err, xerror.ErrSinkOpen)
	}
	if strings.EqualFold(filepath.Ext(path), ".gif") {
		return newGIFContainer(path, fps)
	}
	return newFFmpegContainer(ctx, path, width, height, fps)
}

func checkWritable(path string) error {
	if err := xutil.EnsureParentDir(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

// gifContainer 帧先留在内存，Close 时一次性编码
type gifContainer struct {
	path   string
	delay  int
	frames []*image.Paletted
}

func newGIFContainer(path string, fps int) (*gifContainer, error) {
	delay := 100 / max(fps, 1)
	return &gifContainer{path: path, delay: max(delay, 2)}, nil
}

func (c *gifContainer) WriteFrame(img *image.RGBA) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("empty frame image")
	}
	p := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.Draw(p, p.Bounds(), img, img.Bounds().Min, draw.Src)
	c.frames = append(c.frames, p)
	return nil
}

func (c *gifContainer) Close() error {
	f, err := os.Create(c.path)
	if err != nil {
		return err
	}
	defer f.Close()

	if len(c.frames) == 0 {
		return nil
	}
	delays := make([]int, len(c.frames))
	for i := range delays {
		delays[i] = c.delay
	}
	if err := gif.EncodeAll(f, &gif.GIF{Image: c.frames, Delay: delays}); err != nil {
		return err
	}
	c.frames = nil
	return nil
}

// ffmpegContainer 原始 RGBA 帧写入 ffmpeg stdin
type ffmpegContainer struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *bytes.Buffer
	width  int
	height int
}

func newFFmpegContainer(ctx context.Context, path string, width, height, fps int) (*ffmpegContainer, error) {
	cmd := commandContext(ctx, "ffmpeg",
		"-v", "error",
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", strconv.Itoa(max(fps, 1)),
		"-i", "-",
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		path,
	)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, xerror.Newf("xsink", "open", "ffmpeg stdin pipe failed, err=[%v]: %w", err, xerror.ErrSinkOpen)
	}
	if err := cmd.Start(); err != nil {
		return nil, xerror.Newf("xsink", "open", "start ffmpeg failed, err=[%v]: %w", err, xerror.ErrSinkOpen)
	}
	return &ffmpegContainer{cmd: cmd, stdin: stdin, stderr: stderr, width: width, height: height}, nil
}

func (c *ffmpegContainer) WriteFrame(img *image.RGBA) error {
	b := img.Bounds()
	if b.Dx() != c.width || b.Dy() != c.height {
		return fmt.Errorf("frame size %dx%d does not match stream %dx%d", b.Dx(), b.Dy(), c.width, c.height)
	}
	_, err := c.stdin.Write(img.Pix)
	return err
}

func (c *ffmpegContainer) Close() error {
	_ = c.stdin.Close()
	if err := c.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg exited, err=[%v], stderr=[%s]", err, strings.TrimSpace(c.stderr.String()))
	}
	return nil
}
