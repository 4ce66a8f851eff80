// Package xshutdown 协作式停止：一次性的停止标记、阶段状态机，以及下游阶段的排空循环
package xshutdown

import "sync/atomic"

// Flag 只能从 false 变为 true 一次，读写都不加锁
type Flag struct {
	v atomic.Bool
}

// Set 第一次调用返回 true，之后都返回 false
func (f *Flag) Set() bool {
	return f.v.CompareAndSwap(false, true)
}

func (f *Flag) IsSet() bool {
	return f.v.Load()
}
