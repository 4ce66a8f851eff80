// Package xsink 字符帧的消费端：终端播放器与视频编码器
package xsink

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/xiaoshicae/xascii/xframe"
	"github.com/xiaoshicae/xascii/xqueue"
	"github.com/xiaoshicae/xascii/xshutdown"
)

const StageName = "sink"

// Sink 每次运行只启用一个实现，流水线不区分具体类型
//
// Open 失败属于致命错误（ErrSinkOpen），此时不会消费任何帧；
// Consume 返回 xerror.ErrStopped 表示主动结束，其它错误会中止运行；
// Close 必须在任何退出路径上调用，可重复调用。
type Sink interface {
	Name() string
	Open(ctx context.Context) error
	Consume(ctx context.Context, frame *xframe.GlyphFrame) error
	Close() error

	// Pace 每次取帧前的固定等待，0 表示不限速
	Pace() time.Duration
}

// Stage 输出阶段
type Stage struct {
	Sink         Sink
	In           *xqueue.Queue[*xframe.GlyphFrame]
	Coordinator  *xshutdown.Coordinator
	Self         *xshutdown.Stage
	Upstream     *xshutdown.Stage
	PollInterval time.Duration

	consumed atomic.Uint64
}

func (s *Stage) Name() string {
	return StageName
}

func (s *Stage) Run(ctx context.Context) error {
	d := &xshutdown.Drainer[*xframe.GlyphFrame]{
		Queue:        s.In,
		Coordinator:  s.Coordinator,
		Stage:        s.Self,
		Upstream:     s.Upstream,
		PollInterval: s.PollInterval,
		Pace:         s.Sink.Pace(),
		Handle: func(ctx context.Context, frame *xframe.GlyphFrame) error {
			if err := s.Sink.Consume(ctx, frame); err != nil {
				return err
			}
			s.consumed.Add(1)
			return nil
		},
	}
	return d.Run(ctx)
}

// Consumed 已交给 Sink 且成功返回的帧数
func (s *Stage) Consumed() uint64 {
	return s.consumed.Load()
}
