package xsource

import (
	"context"
	"io"

	"github.com/xiaoshicae/xascii/xframe"
)

// SliceSource 依次返回内存中的帧，Err 非空时在帧耗尽后返回它
type SliceSource struct {
	Frames  []*xframe.RawFrame
	Err     error
	OpenErr error

	pos    int
	opened bool
	closed bool
}

func (s *SliceSource) Name() string {
	return "slice"
}

func (s *SliceSource) Open(context.Context) error {
	if s.OpenErr != nil {
		return s.OpenErr
	}
	s.opened = true
	return nil
}

func (s *SliceSource) Next(ctx context.Context) (*xframe.RawFrame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos < len(s.Frames) {
		f := s.Frames[s.pos]
		s.pos++
		return f, nil
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return nil, io.EOF
}

func (s *SliceSource) Close() error {
	s.closed = true
	return nil
}

func (s *SliceSource) Opened() bool {
	return s.opened
}

func (s *SliceSource) Closed() bool {
	return s.closed
}
