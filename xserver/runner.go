package xserver

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xiaoshicae/xascii/xhook"
	"github.com/xiaoshicae/xascii/xutil"
)

// stopWaitTimeout 收到信号并调用 Stop 后，等待 Run 返回的最长时间
var stopWaitTimeout = 10 * time.Second

var quitSignals = []os.Signal{
	syscall.SIGHUP,
	syscall.SIGINT,
	syscall.SIGTERM,
}

// Run 依次执行 BeforeStart hook、server、BeforeStop hook，并监听退出信号
func Run(server Server) error {
	return run(server)
}

// R 只执行 BeforeStart hook，用于调试
func R() error {
	return run(nil)
}

func run(server Server) error {
	if err := xhook.InvokeBeforeStartHook(); err != nil {
		return err
	}
	if server == nil {
		return nil
	}

	serverRunErr := runWithServer(server)
	beforeStopHookErr := xhook.InvokeBeforeStopHook()
	if serverRunErr != nil || beforeStopHookErr != nil {
		return errors.Join(serverRunErr, beforeStopHookErr)
	}
	return nil
}

func runWithServer(s Server) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, quitSignals...)
	defer signal.Stop(quit)
	return waitServer(s, quit)
}

func waitServer(s Server, quit <-chan os.Signal) error {
	serverRunErrChan := make(chan error, 1)
	go safeInvokeServerRun(s, serverRunErrChan)

	select {
	case err := <-serverRunErrChan:
		return err
	case sig := <-quit:
		xutil.InfoIfEnableDebug("********** XAscii Stop server begin, signal=[%v] **********", sig)
		if err := safeInvokeServerStop(s); err != nil {
			return fmt.Errorf("XAscii Stop server failed, err=[%v]", err)
		}
	}

	select {
	case err := <-serverRunErrChan:
		xutil.InfoIfEnableDebug("********** XAscii Stop server success **********")
		return err
	case <-time.After(stopWaitTimeout):
		return fmt.Errorf("XAscii Stop server timeout, server still running after %s", stopWaitTimeout)
	}
}

func safeInvokeServerRun(s Server, serverRunErrChan chan<- error) {
	defer func() {
		if r := recover(); r != nil {
			serverRunErrChan <- fmt.Errorf("XAscii Run server failed, err=[panic occurred, %v]", r)
		}
	}()

	err := s.Run()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		serverRunErrChan <- err
		return
	}
	serverRunErrChan <- nil
}

func safeInvokeServerStop(s Server) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic occurred, %v", r)
		}
	}()
	return s.Stop()
}
