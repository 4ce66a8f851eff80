package xhook

import "time"

const defaultHookTimeout = 10 * time.Second

// Order 执行顺序，值越小越先执行，默认 100
func Order(order int) Option {
	return func(o *options) {
		o.Order = order
	}
}

// MustInvokeSuccess BeforeStart 失败时是否中断启动，默认 true
func MustInvokeSuccess(success bool) Option {
	return func(o *options) {
		o.MustInvokeSuccess = success
	}
}

// Name hook 的标识，用于日志；同一阶段同名的 hook 后注册的覆盖先注册的
// 默认取函数名与定义位置
func Name(name string) Option {
	return func(o *options) {
		o.Name = name
	}
}

// Timeout 单个 hook 的超时时间，<=0 表示不限制
func Timeout(timeout time.Duration) Option {
	return func(o *options) {
		o.Timeout = timeout
	}
}

type Option func(*options)

type options struct {
	Name              string
	Order             int
	MustInvokeSuccess bool
	Timeout           time.Duration
}

func defaultOptions() *options {
	return &options{
		Order:             100,
		MustInvokeSuccess: true,
		Timeout:           defaultHookTimeout,
	}
}
