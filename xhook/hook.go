// Package xhook 管理进程级的启动/停止钩子
// 配置、日志、trace、缓存在 init 中注册 BeforeStart；
// 运行开始后注册输出端的兜底关闭（还原终端、写完输出文件），与 trace flush、日志落盘一起在 BeforeStop 执行
package xhook

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/xiaoshicae/xascii/xerror"
	"github.com/xiaoshicae/xascii/xutil"

	"golang.org/x/exp/slices"
)

var (
	defaultStopTimeout = 30 * time.Second
	maxHookNum         = 1000
)

// HookFunc Hook 函数类型定义
type HookFunc func() error

type hook struct {
	name string
	fn   HookFunc
	opts *options
}

// phase 一组按 Order 执行的 hook，同名 hook 只保留最后注册的一个
type phase struct {
	name   string
	hooks  []hook
	sorted bool
}

var (
	hooksMu    sync.Mutex
	startPhase = &phase{name: "BeforeStart"}
	stopPhase  = &phase{name: "BeforeStop"}
)

// SetStopTimeout 设置 BeforeStop hooks 的整体超时时间
func SetStopTimeout(timeout time.Duration) {
	if timeout > 0 {
		hooksMu.Lock()
		defaultStopTimeout = timeout
		hooksMu.Unlock()
	}
}

// BeforeStart 注册 BeforeStart Hook
func BeforeStart(f HookFunc, opts ...Option) {
	startPhase.register(f, opts)
}

// BeforeStop 注册 BeforeStop Hook
func BeforeStop(f HookFunc, opts ...Option) {
	stopPhase.register(f, opts)
}

func (p *phase) register(f HookFunc, opts []Option) {
	if f == nil {
		panic(fmt.Sprintf("XAscii %s hook can not be nil", p.name))
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	name := o.Name
	if name == "" {
		name = hookName(f)
	}

	hooksMu.Lock()
	defer hooksMu.Unlock()

	// 同名覆盖：一次运行重新注册输出端关闭时，旧的闭包不能再被调用
	if i := slices.IndexFunc(p.hooks, func(h hook) bool { return h.name == name }); i >= 0 {
		xutil.WarnIfEnableDebug("XAscii %s hook [%s] registered again, replacing", p.name, name)
		p.hooks[i] = hook{name: name, fn: f, opts: o}
		p.sorted = false
		return
	}

	if len(p.hooks) >= maxHookNum {
		panic(fmt.Sprintf("XAscii %s hook can not be more than %d", p.name, maxHookNum))
	}
	p.hooks = append(p.hooks, hook{name: name, fn: f, opts: o})
	p.sorted = false
}

func (p *phase) snapshot() []hook {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if !p.sorted {
		slices.SortStableFunc(p.hooks, func(a, b hook) int { return a.opts.Order - b.opts.Order })
		p.sorted = true
	}
	return slices.Clone(p.hooks)
}

// InvokeBeforeStartHook 按顺序执行所有 BeforeStart Hook，每个 Hook 独立超时
func InvokeBeforeStartHook() error {
	for _, h := range startPhase.snapshot() {
		err := invokeHookWithTimeout(h, h.opts.Timeout)
		switch {
		case err == nil:
			xutil.InfoIfEnableDebug("XAscii before start hook [%s] done", h.name)
		case h.opts.MustInvokeSuccess:
			xutil.ErrorIfEnableDebug("XAscii before start hook [%s] failed, err=[%v]", h.name, err)
			return xerror.Newf("xhook", "BeforeStart", "hook=[%s], err=[%w]", h.name, err)
		default:
			xutil.WarnIfEnableDebug("XAscii before start hook [%s] failed, continue, err=[%v]", h.name, err)
		}
	}
	return nil
}

// InvokeBeforeStopHook 执行所有 BeforeStop Hook，单个失败不影响后续执行
func InvokeBeforeStopHook() error {
	hooks := stopPhase.snapshot()
	if len(hooks) == 0 {
		return nil
	}

	hooksMu.Lock()
	stopTimeout := defaultStopTimeout
	hooksMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- invokeStopHooks(ctx, hooks) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return xerror.Newf("xhook", "BeforeStop", "timeout after %v", stopTimeout)
	}
}

func invokeStopHooks(ctx context.Context, hooks []hook) error {
	var errs []error
	for i, h := range hooks {
		if ctx.Err() != nil {
			errs = append(errs, fmt.Errorf("interrupted due to timeout, completed %d/%d hooks", i, len(hooks)))
			break
		}

		// 取 min(个体超时, 全局剩余时间)
		timeout := h.opts.Timeout
		if deadline, ok := ctx.Deadline(); ok {
			if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
				timeout = remaining
			}
		}

		if err := invokeHookWithTimeout(h, timeout); err != nil {
			xutil.ErrorIfEnableDebug("XAscii before stop hook [%s] failed, err=[%v]", h.name, err)
			errs = append(errs, fmt.Errorf("hook=[%s], err=[%w]", h.name, err))
			continue
		}
		xutil.InfoIfEnableDebug("XAscii before stop hook [%s] done", h.name)
	}
	if err := errors.Join(errs...); err != nil {
		return xerror.New("xhook", "BeforeStop", err)
	}
	return nil
}

// invokeHookWithTimeout 超时只代表放弃等待，hook 所在 goroutine 会一直跑到返回
func invokeHookWithTimeout(h hook, timeout time.Duration) error {
	if timeout <= 0 {
		return safeInvokeHook(h.fn)
	}

	ch := make(chan error, 1)
	go func() { ch <- safeInvokeHook(h.fn) }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case err := <-ch:
		return err
	case <-timer.C:
		return fmt.Errorf("hook timeout after %v", timeout)
	}
}

func safeInvokeHook(h HookFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic occurred, %v", r)
		}
	}()
	return h()
}

// hookName 未指定 Name 时用 包名.函数名@文件:行 标识 hook
func hookName(f HookFunc) string {
	pc := reflect.ValueOf(f).Pointer()
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return fmt.Sprintf("hook@%#x", pc)
	}
	name := fn.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	file, line := fn.FileLine(pc)
	if i := strings.LastIndex(file, "/"); i >= 0 {
		file = file[i+1:]
	}
	return fmt.Sprintf("%s@%s:%d", name, file, line)
}

// reset 清空所有已注册的 hook，仅测试使用
func reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	startPhase.hooks, startPhase.sorted = nil, true
	stopPhase.hooks, stopPhase.sorted = nil, true
}
