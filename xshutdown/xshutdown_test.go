package xshutdown

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xiaoshicae/xascii/xerror"
	"github.com/xiaoshicae/xascii/xqueue"

	. "github.com/bytedance/mockey"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFlag(t *testing.T) {
	PatchConvey("TestFlag", t, func() {
		f := &Flag{}
		So(f.IsSet(), ShouldBeFalse)
		So(f.Set(), ShouldBeTrue)
		So(f.Set(), ShouldBeFalse)
		So(f.IsSet(), ShouldBeTrue)
	})
}

func TestStage(t *testing.T) {
	PatchConvey("TestStage", t, func() {
		c := NewCoordinator()
		s := c.NewStage("conversion")
		So(s.Name(), ShouldEqual, "conversion")
		So(s.State(), ShouldEqual, Running)

		s.Drain()
		So(s.State(), ShouldEqual, Draining)
		s.Stop()
		So(s.State(), ShouldEqual, Stopped)
		s.Drain()
		So(s.State(), ShouldEqual, Stopped)

		So(c.States(), ShouldResemble, map[string]string{"conversion": "stopped"})
		So(State(9).String(), ShouldEqual, "unknown")
	})
}

type countWaker struct {
	n atomic.Int32
}

func (w *countWaker) Wake() {
	w.n.Add(1)
}

func TestCoordinator(t *testing.T) {
	PatchConvey("TestCoordinator-Signal", t, func() {
		c := NewCoordinator()
		w := &countWaker{}
		c.Watch(w)

		So(c.Signal(), ShouldBeTrue)
		So(c.Signal(), ShouldBeFalse)
		So(c.IsSet(), ShouldBeTrue)
		So(c.Aborted(), ShouldBeFalse)
		So(w.n.Load(), ShouldEqual, 1)
	})

	PatchConvey("TestCoordinator-Abort", t, func() {
		c := NewCoordinator()
		w := &countWaker{}
		c.Watch(w)
		cause := errors.New("decode failed")

		So(c.Abort(cause), ShouldBeTrue)
		So(c.Abort(errors.New("other")), ShouldBeFalse)
		So(c.IsSet(), ShouldBeTrue)
		So(c.Aborted(), ShouldBeTrue)
		So(c.Cause(), ShouldEqual, cause)
		So(w.n.Load(), ShouldEqual, 1)
	})

	PatchConvey("TestCoordinator-Bind", t, func() {
		c := NewCoordinator()
		ctx, cancel := context.WithCancel(context.Background())
		stop := c.Bind(ctx)
		defer stop()

		cancel()
		So(func() bool {
			deadline := time.Now().Add(time.Second)
			for time.Now().Before(deadline) {
				if c.Aborted() {
					return true
				}
				time.Sleep(time.Millisecond)
			}
			return false
		}(), ShouldBeTrue)
		So(errors.Is(c.Cause(), context.Canceled), ShouldBeTrue)
	})

	PatchConvey("TestCoordinator-StageStopWakes", t, func() {
		c := NewCoordinator()
		w := &countWaker{}
		c.Watch(w)
		s := c.NewStage("source")
		s.Stop()
		s.Stop()
		So(w.n.Load(), ShouldEqual, 1)
	})
}

func newDrainer(q *xqueue.Queue[int], c *Coordinator, upstream *Stage, handle func(context.Context, int) error) *Drainer[int] {
	return &Drainer[int]{
		Queue:        q,
		Coordinator:  c,
		Stage:        c.NewStage("consumer"),
		Upstream:     upstream,
		PollInterval: 20 * time.Millisecond,
		Handle:       handle,
	}
}

func TestDrainer(t *testing.T) {
	PatchConvey("TestDrainer-DrainAfterSignal", t, func() {
		q := xqueue.New[int]()
		c := NewCoordinator()
		c.Watch(q)

		// 标记在消费者启动前就已设置，已入队的 3 帧仍须全部处理
		q.Push(1)
		q.Push(2)
		q.Push(3)
		c.Signal()

		var got []int
		d := newDrainer(q, c, nil, func(_ context.Context, v int) error {
			got = append(got, v)
			return nil
		})
		So(d.Run(context.Background()), ShouldBeNil)
		So(got, ShouldResemble, []int{1, 2, 3})
		So(d.Stage.State(), ShouldEqual, Stopped)
	})

	PatchConvey("TestDrainer-WaitsForUpstream", t, func() {
		q := xqueue.New[int]()
		c := NewCoordinator()
		c.Watch(q)
		upstream := c.NewStage("producer")

		var mu sync.Mutex
		var got []int
		d := newDrainer(q, c, upstream, func(_ context.Context, v int) error {
			mu.Lock()
			got = append(got, v)
			mu.Unlock()
			return nil
		})

		done := make(chan error, 1)
		go func() { done <- d.Run(context.Background()) }()

		c.Signal()
		time.Sleep(50 * time.Millisecond)
		for i := 0; i < 5; i++ {
			q.Push(i)
		}
		upstream.Stop()

		select {
		case err := <-done:
			So(err, ShouldBeNil)
		case <-time.After(2 * time.Second):
			So("drainer did not stop", ShouldBeEmpty)
		}
		mu.Lock()
		defer mu.Unlock()
		So(got, ShouldResemble, []int{0, 1, 2, 3, 4})
	})

	PatchConvey("TestDrainer-BlockedConsumerWakes", t, func() {
		q := xqueue.New[int]()
		c := NewCoordinator()
		c.Watch(q)
		d := newDrainer(q, c, nil, func(context.Context, int) error { return nil })
		d.PollInterval = time.Hour

		done := make(chan error, 1)
		go func() { done <- d.Run(context.Background()) }()
		time.Sleep(20 * time.Millisecond)
		c.Signal()

		select {
		case err := <-done:
			So(err, ShouldBeNil)
		case <-time.After(2 * time.Second):
			So("drainer did not wake", ShouldBeEmpty)
		}
	})

	PatchConvey("TestDrainer-UpstreamStopsDuringHandle", t, func() {
		q := xqueue.New[int]()
		c := NewCoordinator()
		c.Watch(q)
		upstream := c.NewStage("conversion")
		for i := 0; i < 3; i++ {
			q.Push(i)
		}

		var mu sync.Mutex
		var got []int
		d := newDrainer(q, c, upstream, func(_ context.Context, v int) error {
			if v == 0 {
				c.Signal()
				upstream.Stop()
			}
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			got = append(got, v)
			mu.Unlock()
			return nil
		})
		d.PollInterval = time.Hour

		done := make(chan error, 1)
		start := time.Now()
		go func() { done <- d.Run(context.Background()) }()

		select {
		case err := <-done:
			So(err, ShouldBeNil)
		case <-time.After(2 * time.Second):
			So("drainer missed the upstream stop", ShouldBeEmpty)
		}
		So(time.Since(start), ShouldBeLessThan, time.Second)
		mu.Lock()
		defer mu.Unlock()
		So(got, ShouldResemble, []int{0, 1, 2})
	})

	PatchConvey("TestDrainer-AbortDuringHandle", t, func() {
		q := xqueue.New[int]()
		c := NewCoordinator()
		c.Watch(q)
		q.Push(1)
		d := newDrainer(q, c, c.NewStage("conversion"), func(context.Context, int) error {
			c.Abort(nil)
			return nil
		})
		d.PollInterval = time.Hour

		done := make(chan error, 1)
		go func() { done <- d.Run(context.Background()) }()
		select {
		case err := <-done:
			So(err, ShouldBeNil)
		case <-time.After(2 * time.Second):
			So("drainer missed the abort", ShouldBeEmpty)
		}
	})

	PatchConvey("TestDrainer-Abort", t, func() {
		q := xqueue.New[int]()
		c := NewCoordinator()
		c.Watch(q)
		for i := 0; i < 10; i++ {
			q.Push(i)
		}
		handled := 0
		d := newDrainer(q, c, nil, func(context.Context, int) error {
			handled++
			if handled == 2 {
				c.Abort(nil)
			}
			return nil
		})
		So(d.Run(context.Background()), ShouldBeNil)
		So(handled, ShouldEqual, 2)
	})

	PatchConvey("TestDrainer-HandleErr", t, func() {
		q := xqueue.New[int]()
		c := NewCoordinator()
		q.Push(1)
		q.Push(2)

		d := newDrainer(q, c, nil, func(context.Context, int) error { return xerror.ErrStopped })
		So(d.Run(context.Background()), ShouldBeNil)
		So(q.Len(), ShouldEqual, 1)

		boom := errors.New("boom")
		d = newDrainer(q, c, nil, func(context.Context, int) error { return boom })
		So(d.Run(context.Background()), ShouldEqual, boom)
	})
}

func TestDrainerPace(t *testing.T) {
	PatchConvey("TestDrainerPace", t, func() {
		q := xqueue.New[int]()
		c := NewCoordinator()
		q.Push(1)
		q.Push(2)
		c.Signal()

		var got []int
		d := newDrainer(q, c, nil, func(_ context.Context, v int) error {
			got = append(got, v)
			return nil
		})
		d.Pace = 20 * time.Millisecond

		start := time.Now()
		So(d.Run(context.Background()), ShouldBeNil)
		So(got, ShouldResemble, []int{1, 2})
		So(time.Since(start), ShouldBeGreaterThanOrEqualTo, 40*time.Millisecond)
	})

	PatchConvey("TestDrainerPace-Abort", t, func() {
		q := xqueue.New[int]()
		c := NewCoordinator()
		d := newDrainer(q, c, nil, func(context.Context, int) error { return nil })
		d.Pace = time.Hour

		done := make(chan error, 1)
		go func() { done <- d.Run(context.Background()) }()
		time.Sleep(10 * time.Millisecond)
		c.Abort(nil)

		select {
		case err := <-done:
			So(err, ShouldBeNil)
		case <-time.After(2 * time.Second):
			So("pace not interrupted", ShouldBeEmpty)
		}
	})
}
