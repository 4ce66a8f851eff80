package xsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/xiaoshicae/xascii/xerror"
	"github.com/xiaoshicae/xascii/xframe"
	"github.com/xiaoshicae/xascii/xutil"

	"github.com/tidwall/gjson"
)

// commandContext 便于测试替换
var commandContext = exec.CommandContext

// StreamInfo ffprobe 得到的视频流信息
type StreamInfo struct {
	Width     int
	Height    int
	FrameRate float64
	Codec     string
}

// FFmpegSource 通过 ffmpeg 子进程解码，stdout 输出 rawvideo
type FFmpegSource struct {
	Path       string
	Format     xframe.PixelFormat
	FFmpegBin  string
	FFprobeBin string

	info      StreamInfo
	frameSize int
	cmd       *exec.Cmd
	stdout    io.ReadCloser
	stderr    *bytes.Buffer
	waited    bool
}

func NewFFmpegSource(path string, format xframe.PixelFormat) *FFmpegSource {
	return &FFmpegSource{
		Path:       path,
		Format:     format,
		FFmpegBin:  "ffmpeg",
		FFprobeBin: "ffprobe",
	}
}

func (s *FFmpegSource) Name() string {
	return "ffmpeg"
}

func (s *FFmpegSource) StreamInfo() StreamInfo {
	return s.info
}

func (s *FFmpegSource) Open(ctx context.Context) error {
	if !xutil.FileExist(s.Path) {
		return xerror.Newf("xsource", "open", "input [%s] not found: %w", s.Path, xerror.ErrSourceOpen)
	}

	out, err := commandContext(ctx, s.FFprobeBin,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate,codec_name",
		"-of", "json",
		s.Path,
	).Output()
	if err != nil {
		return xerror.Newf("xsource", "open", "ffprobe [%s] failed, err=[%v]: %w", s.Path, err, xerror.ErrSourceOpen)
	}
	p, err := parseStreamInfo(out)
	if err != nil {
		return xerror.Newf("xsource", "open", "%v: %w", err, xerror.ErrSourceOpen)
	}
	s.info = p
	s.frameSize = p.Width * p.Height * s.Format.BytesPerPixel()

	s.cmd = commandContext(ctx, s.FFmpegBin,
		"-v", "error",
		"-nostdin",
		"-i", s.Path,
		"-f", "rawvideo",
		"-pix_fmt", s.Format.String(),
		"-",
	)
	s.stderr = &bytes.Buffer{}
	s.cmd.Stderr = s.stderr
	if s.stdout, err = s.cmd.StdoutPipe(); err != nil {
		return xerror.Newf("xsource", "open", "ffmpeg stdout pipe failed, err=[%v]: %w", err, xerror.ErrSourceOpen)
	}
	if err = s.cmd.Start(); err != nil {
		return xerror.Newf("xsource", "open", "start ffmpeg failed, err=[%v]: %w", err, xerror.ErrSourceOpen)
	}
	return nil
}

func (s *FFmpegSource) Next(ctx context.Context) (*xframe.RawFrame, error) {
	if s.stdout == nil {
		return nil, xerror.Newf("xsource", "next", "source not opened: %w", xerror.ErrDecode)
	}
	data, err := readFrame(s.stdout, s.frameSize)
	if err == nil {
		return &xframe.RawFrame{Data: data, Width: s.info.Width, Height: s.info.Height, Format: s.Format}, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if errors.Is(err, io.EOF) {
		// 正常结束也要看退出码，ffmpeg 中途出错同样表现为 EOF
		if werr := s.wait(); werr != nil {
			return nil, xerror.Newf("xsource", "next", "ffmpeg exited, err=[%v], stderr=[%s]: %w", werr, s.stderrText(), xerror.ErrDecode)
		}
		return nil, io.EOF
	}
	return nil, xerror.Newf("xsource", "next", "%v, stderr=[%s]: %w", err, s.stderrText(), xerror.ErrDecode)
}

func (s *FFmpegSource) Close() error {
	if s.cmd == nil || s.cmd.Process == nil || s.waited {
		return nil
	}
	_ = s.cmd.Process.Kill()
	_ = s.wait()
	return nil
}

func (s *FFmpegSource) wait() error {
	if s.waited {
		return nil
	}
	s.waited = true
	return s.cmd.Wait()
}

func (s *FFmpegSource) stderrText() string {
	if s.stderr == nil {
		return ""
	}
	return strings.TrimSpace(s.stderr.String())
}

// readFrame 读满一帧；一个字节都没读到返回 io.EOF，读到一半返回 io.ErrUnexpectedEOF
func readFrame(r io.Reader, size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid frame size %d", size)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func parseStreamInfo(out []byte) (StreamInfo, error) {
	if !gjson.ValidBytes(out) {
		return StreamInfo{}, fmt.Errorf("ffprobe output is not json")
	}
	stream := gjson.GetBytes(out, "streams.0")
	if !stream.Exists() {
		return StreamInfo{}, fmt.Errorf("no video stream found")
	}
	p := StreamInfo{
		Width:     int(stream.Get("width").Int()),
		Height:    int(stream.Get("height").Int()),
		FrameRate: parseRate(stream.Get("r_frame_rate").String()),
		Codec:     stream.Get("codec_name").String(),
	}
	if p.Width <= 0 || p.Height <= 0 {
		return StreamInfo{}, fmt.Errorf("invalid video size %dx%d", p.Width, p.Height)
	}
	return p, nil
}

// parseRate 解析 "30000/1001" 或 "25"，失败返回 0
func parseRate(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
