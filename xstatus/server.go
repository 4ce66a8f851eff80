// Package xstatus 可选的诊断 HTTP 服务，运行期间提供统计快照
package xstatus

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiaoshicae/xascii/xerror"
	"github.com/xiaoshicae/xascii/xutil"
)

const defaultWaitStopDuration = 5 * time.Second

type Server struct {
	engine   *gin.Engine
	srv      *http.Server
	listener net.Listener
	served   chan error
}

func NewServer(board *Board) *Server {
	gin.SetMode(gin.ReleaseMode)
	return &Server{engine: NewEngine(board)}
}

// Start 同步监听，端口被占用等错误直接返回；之后在后台处理请求
func (s *Server) Start(c *Config) error {
	c = configMergeDefault(c)
	addr := net.JoinHostPort(c.Host, strconv.Itoa(*c.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return xerror.Newf("xstatus", "start", "listen [%s] failed, err=[%v]", addr, err)
	}
	xutil.InfoIfEnableDebug("XAscii status server listen at: %s", ln.Addr())

	s.listener = ln
	s.srv = &http.Server{Handler: s.engine.Handler(), ReadHeaderTimeout: 5 * time.Second}
	s.served = make(chan error, 1)
	go func() {
		err := s.srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.served <- err
	}()
	return nil
}

// Addr 实际监听地址，未启动时为空
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultWaitStopDuration)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return xerror.Newf("xstatus", "stop", "status server stop failed, err=[%v]", err)
	}
	err := <-s.served
	s.srv = nil
	return err
}
