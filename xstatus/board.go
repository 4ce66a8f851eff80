package xstatus

import "sync/atomic"

// Board 保存最近一次发布的统计快照，并发安全
type Board struct {
	latest    atomic.Value
	published atomic.Uint64
}

type snapshotBox struct {
	v any
}

func NewBoard() *Board {
	return &Board{}
}

// Publish 覆盖上一次的快照
func (b *Board) Publish(v any) {
	b.latest.Store(snapshotBox{v: v})
	b.published.Add(1)
}

// Latest 尚未发布时 ok 为 false
func (b *Board) Latest() (v any, ok bool) {
	box, ok := b.latest.Load().(snapshotBox)
	if !ok {
		return nil, false
	}
	return box.v, true
}

func (b *Board) Published() uint64 {
	return b.published.Load()
}
