package xhook

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	. "github.com/bytedance/mockey"
	. "github.com/smartystreets/goconvey/convey"
)

func closeTerminal() error { return nil }

func TestHookName(t *testing.T) {
	PatchConvey("TestHookName-Func", t, func() {
		name := hookName(closeTerminal)
		So(name, ShouldStartWith, "xhook.closeTerminal@xhook_test.go:")
	})

	PatchConvey("TestHookName-Closure", t, func() {
		name := hookName(func() error { return nil })
		So(name, ShouldContainSubstring, "xhook.TestHookName")
		So(strings.Contains(name, "@xhook_test.go:"), ShouldBeTrue)
	})
}

func TestSafeInvokeHook(t *testing.T) {
	PatchConvey("TestSafeInvokeHook-Panic", t, func() {
		err := safeInvokeHook(func() error { panic("boom") })
		So(err.Error(), ShouldEqual, "panic occurred, boom")
	})

	PatchConvey("TestSafeInvokeHook-Err", t, func() {
		err := safeInvokeHook(func() error { return errors.New("hook err") })
		So(err.Error(), ShouldEqual, "hook err")
	})
}

func TestXHookBeforeStart(t *testing.T) {
	PatchConvey("TestXHookBeforeStart-Panic", t, func() {
		reset()
		defer reset()
		old := maxHookNum
		defer func() { maxHookNum = old }()

		var h HookFunc
		So(func() { BeforeStart(h) }, ShouldPanicWith, "XAscii BeforeStart hook can not be nil")

		maxHookNum = 1
		BeforeStart(func() error { return nil })
		So(func() { BeforeStart(func() error { return nil }) }, ShouldPanicWith, "XAscii BeforeStart hook can not be more than 1")
	})

	PatchConvey("TestXHookBeforeStart-Sort", t, func() {
		reset()
		defer reset()

		h1 := func() error { return errors.New("h1") }
		h2 := func() error { return errors.New("h2") }
		h3 := func() error { return errors.New("h3") }
		BeforeStart(h1, Order(1))
		BeforeStart(h3, Order(3))
		BeforeStart(h2, Order(2))
		for i, h := range startPhase.snapshot() {
			So(h.fn().Error(), ShouldEqual, "h"+strconv.Itoa(i+1))
		}
	})

	PatchConvey("TestXHookBeforeStart-Duplicate", t, func() {
		reset()
		defer reset()

		h := func() error { return nil }
		BeforeStart(h)
		BeforeStart(h)
		So(len(startPhase.hooks), ShouldEqual, 1)
	})
}

func TestXHookBeforeStop(t *testing.T) {
	PatchConvey("TestXHookBeforeStop-Panic", t, func() {
		reset()
		defer reset()

		var h HookFunc
		So(func() { BeforeStop(h) }, ShouldPanicWith, "XAscii BeforeStop hook can not be nil")
	})

	PatchConvey("TestXHookBeforeStop-Sort", t, func() {
		reset()
		defer reset()

		h1 := func() error { return errors.New("h1") }
		h2 := func() error { return errors.New("h2") }
		BeforeStop(h2, Order(2))
		BeforeStop(h1, Order(1))
		for i, h := range stopPhase.snapshot() {
			So(h.fn().Error(), ShouldEqual, "h"+strconv.Itoa(i+1))
		}
	})

	PatchConvey("TestXHookBeforeStop-SameNameReplaces", t, func() {
		reset()
		defer reset()

		var closed []string
		BeforeStop(func() error { closed = append(closed, "first-run"); return nil }, Name("close-sink"), Order(0))
		BeforeStop(func() error { closed = append(closed, "flush"); return nil }, Order(10))
		BeforeStop(func() error { closed = append(closed, "second-run"); return nil }, Name("close-sink"), Order(0))

		So(len(stopPhase.hooks), ShouldEqual, 2)
		So(InvokeBeforeStopHook(), ShouldBeNil)
		So(closed, ShouldResemble, []string{"second-run", "flush"})
	})
}

func TestInvokeBeforeStartHook(t *testing.T) {
	PatchConvey("TestInvokeBeforeStartHook-Err", t, func() {
		reset()
		defer reset()

		BeforeStart(func() error { return errors.New("BeforeStart-Invoke-Err") })
		err := InvokeBeforeStartHook()
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "XAscii xhook BeforeStart failed")
		So(err.Error(), ShouldContainSubstring, "BeforeStart-Invoke-Err")
	})

	PatchConvey("TestInvokeBeforeStartHook-PanicErr", t, func() {
		reset()
		defer reset()

		BeforeStart(func() error { panic("BeforeStart-Invoke-Panic") })
		err := InvokeBeforeStartHook()
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "panic occurred, BeforeStart-Invoke-Panic")
	})

	PatchConvey("TestInvokeBeforeStartHook-Timeout", t, func() {
		reset()
		defer reset()

		BeforeStart(func() error { time.Sleep(200 * time.Millisecond); return nil }, Timeout(10*time.Millisecond))
		err := InvokeBeforeStartHook()
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "hook timeout after")
	})

	PatchConvey("TestInvokeBeforeStartHook-Success", t, func() {
		reset()
		defer reset()

		BeforeStart(func() error { return errors.New("BeforeStart-Invoke-Err") }, MustInvokeSuccess(false))
		BeforeStart(func() error { panic("BeforeStart-Invoke-Panic") }, MustInvokeSuccess(false))
		BeforeStart(func() error { return nil }, MustInvokeSuccess(false))
		So(InvokeBeforeStartHook(), ShouldBeNil)
	})
}

func TestInvokeBeforeStopHook(t *testing.T) {
	PatchConvey("TestInvokeBeforeStopHook-Empty", t, func() {
		reset()
		defer reset()
		So(InvokeBeforeStopHook(), ShouldBeNil)
	})

	PatchConvey("TestInvokeBeforeStopHook-MergeErr", t, func() {
		reset()
		defer reset()

		called := false
		stopErr := errors.New("BeforeStop-Invoke-Err")
		BeforeStop(func() error { return stopErr }, Name("finalize-output"))
		BeforeStop(func() error { panic("BeforeStop-Invoke-Panic") })
		BeforeStop(func() error { called = true; return nil })
		err := InvokeBeforeStopHook()
		So(err, ShouldNotBeNil)
		So(errors.Is(err, stopErr), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "hook=[finalize-output]")
		So(err.Error(), ShouldContainSubstring, "BeforeStop-Invoke-Err")
		So(err.Error(), ShouldContainSubstring, "panic occurred, BeforeStop-Invoke-Panic")
		So(called, ShouldBeTrue)
	})

	PatchConvey("TestInvokeBeforeStopHook-GlobalTimeout", t, func() {
		reset()
		defer reset()
		old := defaultStopTimeout
		defer func() { defaultStopTimeout = old }()

		SetStopTimeout(20 * time.Millisecond)
		BeforeStop(func() error { time.Sleep(200 * time.Millisecond); return nil }, Timeout(0))
		err := InvokeBeforeStopHook()
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "timeout")
	})
}
