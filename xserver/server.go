package xserver

// Server 由 Run 托管的前台任务
type Server interface {
	// Run 阻塞直到任务结束，返回即代表进程可以退出
	Run() error

	// Stop 收到退出信号时调用，应让 Run 尽快返回；Run 返回前的收尾工作仍会执行
	Stop() error
}
