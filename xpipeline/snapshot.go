package xpipeline

import (
	"context"
	"time"

	"github.com/xiaoshicae/xascii/xconvert"
	"github.com/xiaoshicae/xascii/xlog"
	"github.com/xiaoshicae/xascii/xqueue"
)

// Snapshot 某一时刻的运行统计，可直接序列化为 JSON
type Snapshot struct {
	RunID     string            `json:"run_id"`
	Input     string            `json:"input"`
	Sink      string            `json:"sink"`
	Elapsed   string            `json:"elapsed"`
	Raw       xqueue.Stats      `json:"raw_queue"`
	Glyph     xqueue.Stats      `json:"glyph_queue"`
	Stages    map[string]string `json:"stages"`
	Converter xconvert.Stats    `json:"converter"`
	Consumed  uint64            `json:"consumed"`
	Stopping  bool              `json:"stopping"`
	Aborted   bool              `json:"aborted"`
	Done      bool              `json:"done"`
}

// reporter 周期性采集 Snapshot，写日志并回调
type reporter struct {
	interval time.Duration
	collect  func() *Snapshot
	publish  func(*Snapshot)

	stop chan struct{}
	done chan struct{}
}

func newReporter(interval time.Duration, collect func() *Snapshot, publish func(*Snapshot)) *reporter {
	return &reporter{
		interval: interval,
		collect:  collect,
		publish:  publish,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// start interval <= 0 时不启动，Stop 依然可以调用
func (r *reporter) start(ctx context.Context) {
	if r.interval <= 0 {
		close(r.done)
		return
	}
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				r.report(ctx, r.collect())
			}
		}
	}()
}

func (r *reporter) Stop() {
	close(r.stop)
	<-r.done
}

func (r *reporter) report(ctx context.Context, s *Snapshot) {
	xlog.Info(ctx, "XAscii pipeline stats, raw=[len:%d max:%d], glyph=[len:%d max:%d], converted=[%d], malformed=[%d], consumed=[%d], stages=%v",
		s.Raw.Len, s.Raw.MaxLen, s.Glyph.Len, s.Glyph.MaxLen,
		s.Converter.Converted, s.Converter.Malformed, s.Consumed, s.Stages)
	if r.publish != nil {
		r.publish(s)
	}
}
