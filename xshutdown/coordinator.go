package xshutdown

import (
	"context"
	"sync"
	"sync/atomic"
)

// Waker 能唤醒等待方的队列
type Waker interface {
	Wake()
}

// Coordinator 在流水线启动时创建，显式传给每个阶段
// Signal 表示输入正常耗尽，下游排空后退出；Abort 表示放弃剩余数据，各阶段尽快退出
type Coordinator struct {
	flag      Flag
	aborted   atomic.Bool
	abortedCh chan struct{}

	mu     sync.Mutex
	cause  error
	queues []Waker
	stages []*Stage
}

func NewCoordinator() *Coordinator {
	return &Coordinator{abortedCh: make(chan struct{})}
}

// Watch 注册下游队列，Signal/Abort/阶段停止时都会 Wake 它们
func (c *Coordinator) Watch(queues ...Waker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queues = append(c.queues, queues...)
}

// NewStage 创建并登记一个处于 Running 的阶段
func (c *Coordinator) NewStage(name string) *Stage {
	s := &Stage{name: name, coord: c}
	c.mu.Lock()
	c.stages = append(c.stages, s)
	c.mu.Unlock()
	return s
}

// Signal 设置停止标记，只有第一次调用生效
func (c *Coordinator) Signal() bool {
	if !c.flag.Set() {
		return false
	}
	c.wakeAll()
	return true
}

// Abort 记录原因并停止，cause 可以为 nil（用户主动退出）
func (c *Coordinator) Abort(cause error) bool {
	if !c.aborted.CompareAndSwap(false, true) {
		return false
	}
	c.mu.Lock()
	c.cause = cause
	c.mu.Unlock()
	close(c.abortedCh)
	c.flag.Set()
	c.wakeAll()
	return true
}

// Bind ctx 取消时 Abort，返回的函数用于解绑
func (c *Coordinator) Bind(ctx context.Context) (stop func() bool) {
	return context.AfterFunc(ctx, func() {
		c.Abort(context.Cause(ctx))
	})
}

func (c *Coordinator) IsSet() bool {
	return c.flag.IsSet()
}

func (c *Coordinator) Aborted() bool {
	return c.aborted.Load()
}

// AbortedCh Abort 后关闭，用于可中断的等待
func (c *Coordinator) AbortedCh() <-chan struct{} {
	return c.abortedCh
}

// Cause Abort 的原因
func (c *Coordinator) Cause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cause
}

// States 各阶段当前状态，stage 名 -> 状态
func (c *Coordinator) States() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := make(map[string]string, len(c.stages))
	for _, s := range c.stages {
		m[s.name] = s.State().String()
	}
	return m
}

func (c *Coordinator) wakeAll() {
	c.mu.Lock()
	queues := append([]Waker(nil), c.queues...)
	c.mu.Unlock()
	for _, q := range queues {
		q.Wake()
	}
}
