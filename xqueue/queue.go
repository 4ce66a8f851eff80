// Package xqueue 阶段之间传递帧的无界阻塞队列
package xqueue

import (
	"sync"
	"time"
)

// Stats 队列计数快照
type Stats struct {
	Pushed  uint64 `json:"pushed"`
	Popped  uint64 `json:"popped"`
	Len     int    `json:"len"`
	MaxLen  int    `json:"max_len"`
	Wakeups uint64 `json:"wakeups"`
}

// Queue 无界 FIFO，一个生产者一个消费者
// 所有等待方都挂在同一个 cond 上，Push/Wake/Close 一律 Broadcast
type Queue[T any] struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   []T
	wakeGen uint64
	closed  bool

	pushed uint64
	popped uint64
	maxLen int
}

func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push 追加到队尾并唤醒等待方，关闭后的 Push 直接丢弃并返回 false
func (q *Queue[T]) Push(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, item)
	q.pushed++
	if len(q.items) > q.maxLen {
		q.maxLen = len(q.items)
	}
	q.cond.Broadcast()
	return true
}

// Pop 阻塞直到有元素，队列关闭且为空时返回 false
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	return q.popLocked()
}

// TryPop 不等待
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

// TryPopOrWait 最多等待 timeout，期间 Wake 或 Close 会让它提前返回
func (q *Queue[T]) TryPopOrWait(timeout time.Duration) (T, bool) {
	return q.TryPopOrWaitUntil(timeout, nil)
}

// TryPopOrWaitUntil 同 TryPopOrWait，另外在持锁状态下检查 done：
// 进入等待前 done 已为 true 则立即返回，之后每次被唤醒都会重新检查。
// done 的状态变化必须伴随一次 Wake，否则只能等超时；done 内不能再操作本队列
func (q *Queue[T]) TryPopOrWaitUntil(timeout time.Duration, done func() bool) (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	stopped := func() bool { return done != nil && done() }
	if len(q.items) > 0 || timeout <= 0 || q.closed || stopped() {
		return q.popLocked()
	}

	gen := q.wakeGen
	expired := false
	timer := time.AfterFunc(timeout, func() {
		q.mu.Lock()
		expired = true
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer timer.Stop()

	for len(q.items) == 0 && !expired && !q.closed && gen == q.wakeGen && !stopped() {
		q.cond.Wait()
	}
	return q.popLocked()
}

// Wake 唤醒所有等待方，不改变队列内容
func (q *Queue[T]) Wake() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.wakeGen++
	q.cond.Broadcast()
}

// Close 之后 Push 失败，已入队的元素仍可取出
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}

func (q *Queue[T]) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Pushed:  q.pushed,
		Popped:  q.popped,
		Len:     len(q.items),
		MaxLen:  q.maxLen,
		Wakeups: q.wakeGen,
	}
}

func (q *Queue[T]) popLocked() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	q.popped++
	return item, true
}
