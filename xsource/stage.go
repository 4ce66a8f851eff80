package xsource

import (
	"context"
	"errors"
	"io"

	"github.com/xiaoshicae/xascii/xframe"
	"github.com/xiaoshicae/xascii/xlog"
	"github.com/xiaoshicae/xascii/xqueue"
	"github.com/xiaoshicae/xascii/xshutdown"
)

const StageName = "source"

// Stage 源阶段，没有排空步骤：输入耗尽就设置停止标记并退出
type Stage struct {
	Source      Source
	Out         *xqueue.Queue[*xframe.RawFrame]
	Coordinator *xshutdown.Coordinator
	Self        *xshutdown.Stage
}

func (s *Stage) Name() string {
	return StageName
}

func (s *Stage) Run(ctx context.Context) error {
	defer s.Self.Stop()

	var seq uint64
	for {
		if s.Coordinator.Aborted() {
			return nil
		}

		frame, err := s.Source.Next(ctx)
		if errors.Is(err, io.EOF) {
			xlog.Info(ctx, "XAscii source exhausted, frames=[%d]", seq, xlog.Stage(StageName))
			s.Coordinator.Signal()
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				s.Coordinator.Abort(context.Cause(ctx))
				return nil
			}
			xlog.Error(ctx, "XAscii source decode failed, abort run, err=[%v]", err, xlog.Stage(StageName))
			s.Coordinator.Abort(err)
			return err
		}

		frame.Seq = seq
		seq++
		s.Out.Push(frame)
	}
}
