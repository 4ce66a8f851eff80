package xpipeline

import "context"

// Processor 流水线中的一个阶段，在独立 goroutine 中运行直到自行结束
// 阶段之间通过队列与 xshutdown.Coordinator 协作，Pipeline 只负责启动、回收与汇总错误
type Processor interface {
	Name() string
	Run(ctx context.Context) error
}
