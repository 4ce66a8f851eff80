package xshutdown

import (
	"context"
	"errors"
	"time"

	"github.com/xiaoshicae/xascii/xerror"
	"github.com/xiaoshicae/xascii/xqueue"
)

const defaultPollInterval = 100 * time.Millisecond

// Drainer 下游阶段的通用运行循环
//
// 队列非空就处理；队列为空且停止标记已设置、上游也已停止时，
// 把期间新入队的元素一次性取完再退出，因此上游推进来的帧不会丢。
// 上游阶段为 nil 时只看停止标记。
// 退出条件在队列锁内检查，Handle 期间发生的 Signal/Stop 不会被错过。
type Drainer[T any] struct {
	Queue        *xqueue.Queue[T]
	Coordinator  *Coordinator
	Stage        *Stage
	Upstream     *Stage
	PollInterval time.Duration

	// Pace 每次取帧前固定等待的时长，0 表示不等待；不做漂移补偿
	Pace time.Duration

	// Handle 返回 xerror.ErrStopped 表示主动结束，其它错误原样返回
	Handle func(ctx context.Context, item T) error
}

func (d *Drainer[T]) Run(ctx context.Context) error {
	defer d.Stage.Stop()

	poll := d.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}

	for {
		if d.Coordinator.Aborted() || !d.pace() {
			return nil
		}

		if item, ok := d.Queue.TryPopOrWaitUntil(poll, d.wakeable); ok {
			if stop, err := d.handle(ctx, item); stop {
				return err
			}
			continue
		}

		if !d.upstreamDone() {
			continue
		}

		d.Stage.Drain()
		for {
			if d.Coordinator.Aborted() || !d.pace() {
				return nil
			}
			item, ok := d.Queue.TryPop()
			if !ok {
				return nil
			}
			if stop, err := d.handle(ctx, item); stop {
				return err
			}
		}
	}
}

// pace 被 Abort 打断时返回 false
func (d *Drainer[T]) pace() bool {
	if d.Pace <= 0 {
		return true
	}
	timer := time.NewTimer(d.Pace)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-d.Coordinator.AbortedCh():
		return false
	}
}

// wakeable 等待中的消费者应当醒来重新判断
func (d *Drainer[T]) wakeable() bool {
	return d.Coordinator.Aborted() || d.upstreamDone()
}

func (d *Drainer[T]) upstreamDone() bool {
	if !d.Coordinator.IsSet() {
		return false
	}
	return d.Upstream == nil || d.Upstream.IsStopped()
}

func (d *Drainer[T]) handle(ctx context.Context, item T) (stop bool, err error) {
	err = d.Handle(ctx, item)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, xerror.ErrStopped) {
		return true, nil
	}
	return true, err
}
