package xserver

import (
	"errors"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/xiaoshicae/xascii/xhook"

	. "github.com/bytedance/mockey"
	. "github.com/smartystreets/goconvey/convey"
)

type funcServer struct {
	run   func() error
	stop  func() error
	stops atomic.Int32
}

func (s *funcServer) Run() error {
	return s.run()
}

func (s *funcServer) Stop() error {
	s.stops.Add(1)
	if s.stop == nil {
		return nil
	}
	return s.stop()
}

// waitingServer Run 阻塞直到 Stop 被调用
func waitingServer(runErr error) *funcServer {
	done := make(chan struct{})
	return &funcServer{
		run: func() error {
			<-done
			return runErr
		},
		stop: func() error {
			close(done)
			return nil
		},
	}
}

func TestRun(t *testing.T) {
	PatchConvey("TestRun-JoinErrors", t, func() {
		Mock(xhook.InvokeBeforeStartHook).Return(nil).Build()
		Mock(runWithServer).Return(errors.New("for test")).Build()
		Mock(xhook.InvokeBeforeStopHook).Return(errors.New("for test 2")).Build()

		err := run(&funcServer{})
		So(err.Error(), ShouldEqual, "for test\nfor test 2")
	})

	PatchConvey("TestRun-StartHookFailed", t, func() {
		Mock(xhook.InvokeBeforeStartHook).Return(errors.New("config missing")).Build()
		stopHook := Mock(xhook.InvokeBeforeStopHook).Return(nil).Build()

		So(run(&funcServer{}).Error(), ShouldEqual, "config missing")
		So(stopHook.Times(), ShouldEqual, 0)
	})

	PatchConvey("TestR", t, func() {
		Mock(xhook.InvokeBeforeStartHook).Return(nil).Build()
		So(R(), ShouldBeNil)
	})
}

func TestWaitServer(t *testing.T) {
	PatchConvey("TestWaitServer-RunReturns", t, func() {
		runErr := errors.New("decode failed")
		s := &funcServer{run: func() error { return runErr }}
		So(waitServer(s, make(chan os.Signal)), ShouldEqual, runErr)
		So(s.stops.Load(), ShouldEqual, 0)
	})

	PatchConvey("TestWaitServer-RunPanic", t, func() {
		s := &funcServer{run: func() error { panic("panic run") }}
		So(waitServer(s, make(chan os.Signal)).Error(), ShouldEqual, "XAscii Run server failed, err=[panic occurred, panic run]")
	})

	PatchConvey("TestWaitServer-SignalStopsAndWaits", t, func() {
		quit := make(chan os.Signal, 1)
		quit <- syscall.SIGINT
		s := waitingServer(nil)
		So(waitServer(s, quit), ShouldBeNil)
		So(s.stops.Load(), ShouldEqual, 1)
	})

	PatchConvey("TestWaitServer-StopFailed", t, func() {
		quit := make(chan os.Signal, 1)
		quit <- syscall.SIGTERM
		s := &funcServer{
			run:  func() error { select {} },
			stop: func() error { return errors.New("stop err") },
		}
		So(waitServer(s, quit).Error(), ShouldEqual, "XAscii Stop server failed, err=[stop err]")
	})

	PatchConvey("TestWaitServer-StopTimeout", t, func() {
		original := stopWaitTimeout
		stopWaitTimeout = 20 * time.Millisecond
		defer func() { stopWaitTimeout = original }()

		quit := make(chan os.Signal, 1)
		quit <- syscall.SIGHUP
		s := &funcServer{run: func() error { select {} }}
		So(waitServer(s, quit).Error(), ShouldContainSubstring, "timeout")
	})
}

func TestSafeInvokeServerStop(t *testing.T) {
	PatchConvey("TestSafeInvokeServerStop-Panic", t, func() {
		s := &funcServer{stop: func() error { panic("stop panic") }}
		So(safeInvokeServerStop(s).Error(), ShouldEqual, "panic occurred, stop panic")
	})

	PatchConvey("TestSafeInvokeServerStop-Nil", t, func() {
		So(safeInvokeServerStop(nil).Error(), ShouldContainSubstring, "panic occurred")
	})
}
