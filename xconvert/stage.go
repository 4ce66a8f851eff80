package xconvert

import (
	"context"
	"time"

	"github.com/xiaoshicae/xascii/xframe"
	"github.com/xiaoshicae/xascii/xlog"
	"github.com/xiaoshicae/xascii/xqueue"
	"github.com/xiaoshicae/xascii/xshutdown"
)

const StageName = "conversion"

// Stage 转换阶段：从 In 取原始帧，转换后推到 Out
type Stage struct {
	Converter    *Converter
	In           *xqueue.Queue[*xframe.RawFrame]
	Out          *xqueue.Queue[*xframe.GlyphFrame]
	Coordinator  *xshutdown.Coordinator
	Self         *xshutdown.Stage
	Upstream     *xshutdown.Stage
	PollInterval time.Duration
}

func (s *Stage) Name() string {
	return StageName
}

// Run 直到上游结束且 In 排空，或运行被中止
func (s *Stage) Run(ctx context.Context) error {
	d := &xshutdown.Drainer[*xframe.RawFrame]{
		Queue:        s.In,
		Coordinator:  s.Coordinator,
		Stage:        s.Self,
		Upstream:     s.Upstream,
		PollInterval: s.PollInterval,
		Handle:       s.handle,
	}
	return d.Run(ctx)
}

func (s *Stage) handle(ctx context.Context, raw *xframe.RawFrame) error {
	frame, err := s.Converter.Convert(raw)
	if err != nil {
		var seq uint64
		if raw != nil {
			seq = raw.Seq
		}
		xlog.Warn(ctx, "XAscii conversion substituted blank frame, err=[%v]", err, xlog.Seq(seq), xlog.Stage(StageName))
		frame = xframe.Blank(s.Converter.Cols(), s.Converter.Rows(), seq)
	}
	s.Out.Push(frame)
	return nil
}
