package xlog

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

const defaultAsyncBufferSize = 4096

// asyncWriter 日志落盘放到后台 goroutine，转换/播放线程只做一次拷贝入队
// dropWhenFull 为 true 时队列满直接丢弃并计数，播放中宁可少日志也不能卡帧
type asyncWriter struct {
	lines        chan []byte
	out          io.WriteCloser
	dropWhenFull bool
	dropped      atomic.Uint64

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
	err    error
}

func newAsyncWriter(out io.WriteCloser, bufferSize int, dropWhenFull bool) *asyncWriter {
	if bufferSize <= 0 {
		bufferSize = defaultAsyncBufferSize
	}
	aw := &asyncWriter{
		lines:        make(chan []byte, bufferSize),
		out:          out,
		dropWhenFull: dropWhenFull,
		done:         make(chan struct{}),
	}
	go aw.drain()
	return aw
}

// Write logrus 会复用 p，必须拷贝；关闭后的写入直接丢弃
func (aw *asyncWriter) Write(p []byte) (int, error) {
	aw.mu.RLock()
	defer aw.mu.RUnlock()
	if aw.closed {
		aw.dropped.Add(1)
		return len(p), nil
	}

	line := bytes.Clone(p)
	if !aw.dropWhenFull {
		aw.lines <- line
		return len(p), nil
	}
	select {
	case aw.lines <- line:
	default:
		aw.dropped.Add(1)
	}
	return len(p), nil
}

// Dropped 因队列满或已关闭而丢弃的日志条数
func (aw *asyncWriter) Dropped() uint64 {
	return aw.dropped.Load()
}

// Close 写空队列后关闭底层 writer，有丢弃时在文件末尾补一行统计；可重复调用
func (aw *asyncWriter) Close() error {
	aw.mu.Lock()
	if aw.closed {
		aw.mu.Unlock()
		<-aw.done
		return aw.err
	}
	aw.closed = true
	close(aw.lines)
	aw.mu.Unlock()

	<-aw.done
	return aw.err
}

func (aw *asyncWriter) drain() {
	defer close(aw.done)
	for line := range aw.lines {
		_, _ = aw.out.Write(line)
	}
	if n := aw.dropped.Load(); n > 0 {
		_, _ = fmt.Fprintf(aw.out, `{"level":"warning","msg":"XAscii async log writer dropped %d lines","time":%q}`+"\n",
			n, time.Now().Format(time.DateTime))
	}
	aw.err = aw.out.Close()
}
