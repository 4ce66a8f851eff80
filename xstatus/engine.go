package xstatus

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xiaoshicae/xascii/xconfig"
)

// NewEngine /healthz 与 /stats 两个只读接口
// 探活请求量大，不记访问日志
func NewEngine(board *Board) *gin.Engine {
	engine := gin.New()
	engine.Use(traceMiddleware(), accessLogMiddleware("/healthz"), recoverMiddleware())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"server":  xconfig.GetServerName(),
			"version": xconfig.GetServerVersion(),
		})
	})

	engine.GET("/stats", func(c *gin.Context) {
		v, ok := board.Latest()
		if !ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no run statistics published yet"})
			return
		}
		c.JSON(http.StatusOK, v)
	})
	return engine
}
