// Package xascii 把视频转换成字符画，在终端播放或编码为文件
package xascii

import (
	"context"

	"github.com/xiaoshicae/xascii/xconfig"
	"github.com/xiaoshicae/xascii/xhook"
	"github.com/xiaoshicae/xascii/xlog"
	"github.com/xiaoshicae/xascii/xpipeline"
	"github.com/xiaoshicae/xascii/xserver"
	"github.com/xiaoshicae/xascii/xshutdown"
	"github.com/xiaoshicae/xascii/xstatus"
	"github.com/xiaoshicae/xascii/xutil"

	_ "github.com/xiaoshicae/xascii/xtrace" // 默认加载 trace
)

const VERSION = "v0.1.0"

// Run 执行启动 hook 后运行一次完整的转换，阻塞到播放结束、用户退出或收到退出信号
func Run() error {
	return xserver.Run(newRunServer())
}

// R 只执行启动 hook，用于调试配置
func R() error {
	return xserver.R()
}

// runServer 把一次转换包装成 xserver.Server，信号到来时中止运行
type runServer struct {
	coord  *xshutdown.Coordinator
	board  *xstatus.Board
	ctx    context.Context
	cancel context.CancelFunc
}

func newRunServer() *runServer {
	ctx, cancel := context.WithCancel(context.Background())
	return &runServer{
		coord:  xshutdown.NewCoordinator(),
		board:  xstatus.NewBoard(),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *runServer) Run() error {
	defer s.cancel()

	c, err := getConfig()
	if err != nil {
		return err
	}
	xutil.InfoIfEnableDebug("XAscii run got config: %s", xutil.ToJsonString(c))

	job, err := buildJob(c, s.coord)
	if err != nil {
		return err
	}
	job.OnSnapshot = func(snap *xpipeline.Snapshot) { s.board.Publish(snap) }
	// 收到信号后 Run 没能按时返回，由 BeforeStop 还原终端、写完输出文件
	xhook.BeforeStop(job.Sink.Close, xhook.Name("xascii-sink-close"), xhook.Order(0))

	status := s.startStatus()
	defer func() {
		if status == nil {
			return
		}
		if err := status.Stop(); err != nil {
			xlog.Warn(s.ctx, "XAscii status server stop failed, err=[%v]", err)
		}
	}()

	ctx := xlog.CtxWithKV(s.ctx, map[string]any{"server": xconfig.GetServerName()})
	report, err := xpipeline.Execute(ctx, job)
	if report != nil && report.Final != nil {
		xlog.Info(ctx, "XAscii run finished, run_id=[%s], consumed=[%d], aborted=[%t]",
			report.RunID, report.Final.Consumed, report.Final.Aborted)
	}
	return err
}

// Stop 收到退出信号时不再排空，直接中止
func (s *runServer) Stop() error {
	s.coord.Abort(nil)
	s.cancel()
	return nil
}

// startStatus 诊断服务启动失败不影响运行
func (s *runServer) startStatus() *xstatus.Server {
	c := xstatus.GetConfig()
	if !c.Enable {
		return nil
	}
	srv := xstatus.NewServer(s.board)
	if err := srv.Start(c); err != nil {
		xlog.Warn(s.ctx, "XAscii status server start failed, err=[%v]", err)
		return nil
	}
	xlog.Info(s.ctx, "XAscii status server listen at %s", srv.Addr())
	return srv
}
