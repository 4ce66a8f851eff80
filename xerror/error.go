// Package xerror 提供 XAscii 统一错误类型
package xerror

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedFrame 原始帧 buffer 长度与声明的宽高/像素格式不一致
	ErrMalformedFrame = errors.New("malformed raw frame")
	// ErrSourceOpen 无法打开视频源
	ErrSourceOpen = errors.New("source open failed")
	// ErrSinkOpen 无法打开输出端（终端或输出文件）
	ErrSinkOpen = errors.New("sink open failed")
	// ErrDecode 解码过程中失败，整个运行中止
	ErrDecode = errors.New("decode failed")
	// ErrInvalidConfig 配置项缺失或取值非法
	ErrInvalidConfig = errors.New("invalid config")
	// ErrStopped 输出端主动要求停止（如用户按下退出键），不是故障
	ErrStopped = errors.New("stopped by sink")
)

// Error 统一错误类型，包含模块名、操作名和原始错误
type Error struct {
	Module string // 模块名，如 "xsource", "xsink"
	Op     string // 操作名，如 "open", "encode"
	Err    error  // 原始错误
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("XAscii %s %s failed, err=[%v]", e.Module, e.Op, e.Err)
	}
	return fmt.Sprintf("XAscii %s %s failed", e.Module, e.Op)
}

// Unwrap 支持 errors.Is / errors.As 链式判断
func (e *Error) Unwrap() error {
	return e.Err
}

// New 创建 Error
func New(module, op string, err error) *Error {
	return &Error{Module: module, Op: op, Err: err}
}

// Newf 创建带格式化消息的 Error，支持 %w
func Newf(module, op, format string, args ...any) *Error {
	return &Error{Module: module, Op: op, Err: fmt.Errorf(format, args...)}
}

// Is 判断 err 链中是否包含指定模块的 Error
func Is(err error, module string) bool {
	var xe *Error
	if errors.As(err, &xe) {
		return xe.Module == module
	}
	return false
}

// Module 从 err 链中提取模块名，若非 Error 则返回空字符串
func Module(err error) string {
	var xe *Error
	if errors.As(err, &xe) {
		return xe.Module
	}
	return ""
}

// IsFatal 启动期错误（配置非法、打不开源或输出端）与解码错误属于致命错误
func IsFatal(err error) bool {
	return errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrSourceOpen) || errors.Is(err, ErrSinkOpen) || errors.Is(err, ErrDecode)
}
